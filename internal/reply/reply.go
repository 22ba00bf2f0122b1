package reply

// Code is the machine-readable outcome that travels next to every reply text.
type Code string

const (
	CodeOK Code = "ok"

	CodeWeatherUnavailable  Code = "weather_unavailable"
	CodePlaceNotRecognized  Code = "place_not_recognized"
	CodeCoordinatesNotFound Code = "coordinates_not_found"
	CodeForecastStatus      Code = "forecast_status"
	CodeWeatherFailed       Code = "weather_failed"

	CodeModelUnavailable Code = "model_unavailable"
	CodeIndexUnavailable Code = "index_unavailable"
	CodeEmptyQuestion    Code = "empty_question"
	CodeKnowledgeFailed  Code = "knowledge_failed"

	CodeNoResponder         Code = "no_responder"
	CodeUnclassified        Code = "unclassified"
	CodeDispatchUnavailable Code = "dispatch_unavailable"
)

// Reply is what a responder hands back: user-facing text plus its code.
// Failures are plain text like any answer; only Code tells them apart.
type Reply struct {
	Text string
	Code Code
}

func OK(text string) Reply {
	return Reply{Text: text, Code: CodeOK}
}

func Fail(code Code, text string) Reply {
	return Reply{Text: text, Code: code}
}

func (r Reply) Succeeded() bool { return r.Code == CodeOK }
