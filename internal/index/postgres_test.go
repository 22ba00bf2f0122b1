package index

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-router/internal/embeddings"
)

func TestVectorToString(t *testing.T) {
	tests := []struct {
		name string
		in   embeddings.Vector
		want string
	}{
		{"empty", nil, "[]"},
		{"single", embeddings.Vector{0.5}, "[0.5]"},
		{"many", embeddings.Vector{0.1, -2, 3.25}, "[0.1,-2,3.25]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vectorToString(tt.in))
		})
	}
}

func TestTopK(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	docID := uuid.New()
	chunkID := uuid.New()
	mock.ExpectQuery("FROM embeddings e").
		WithArgs("[0.1,0.2]", sqlmock.AnyArg(), 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "ord", "text", "similarity", "summary", "key_points"}).
			AddRow(chunkID.String(), docID.String(), 7, "Check the tire pressure monthly.", 0.91, "Owner's manual", "{tires,brakes}"))

	idx := NewPostgresFromDB(db, []uuid.UUID{docID})
	got, err := idx.TopK(context.Background(), embeddings.Vector{0.1, 0.2}, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, chunkID, got[0].ChunkID)
	assert.Equal(t, docID, got[0].DocumentID)
	assert.Equal(t, 7, got[0].Ord)
	assert.Equal(t, "Check the tire pressure monthly.", got[0].Text)
	assert.InDelta(t, 0.91, got[0].Score, 0.0001)
	assert.Equal(t, "Owner's manual", got[0].Summary)
	assert.Equal(t, []string{"tires", "brakes"}, got[0].KeyPoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopKQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM embeddings e").WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresFromDB(db, nil).TopK(context.Background(), embeddings.Vector{1}, 4)
	assert.Error(t, err)
}

func TestTopKEmptyVector(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewPostgresFromDB(db, nil).TopK(context.Background(), nil, 4)
	assert.Error(t, err)
}

func TestPingUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("no route to host"))

	err = NewPostgresFromDB(db, nil).Ping(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
