package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AJVG007/gestor-tareas/internal/domain"
	apperrors "github.com/AJVG007/gestor-tareas/pkg/errors"
)

func sampleTareas() []domain.Tarea {
	now := time.Now().UTC()
	return []domain.Tarea{
		{ID: 1, Title: "Buy groceries", Description: "Milk and eggs", Completed: false, CreatedAt: now, OwnerID: testUserID},
		{ID: 2, Title: "Walk the dog", Completed: true, CreatedAt: now, OwnerID: testUserID},
	}
}

// authedRequest builds a request carrying a valid access cookie for the
// sample account and arranges the resolver's user lookup.
func authedRequest(t *testing.T, userRepo *mockUserRepo, method, path string, body any) *http.Request {
	t.Helper()
	u := sampleAccount()
	userRepo.On("GetByID", mock.Anything, u.ID).Return(u, nil)

	var req *http.Request
	if body != nil {
		req = jsonRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(accessCookie(t, u))
	return req
}

// ============================================================================
// List / FilterCompleted
// ============================================================================

func TestTareaList_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	tareaRepo.On("ListByOwner", mock.Anything, testUserID, (*bool)(nil)).Return(sampleTareas(), nil)

	req := authedRequest(t, userRepo, http.MethodGet, "/tarea/list", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Nil(t, env.Error)

	var got []TareaResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "john", got[0].Owner)
	assert.Equal(t, "john", got[1].Owner)

	tareaRepo.AssertExpectations(t)
}

func TestTareaList_NoCookie(t *testing.T) {
	router := testRouter(new(mockUserRepo), new(mockTareaRepo))

	req := httptest.NewRequest(http.MethodGet, "/tarea/list", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTareaFilterCompleted_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	done := sampleTareas()[1]
	tareaRepo.On("ListByOwner", mock.Anything, testUserID, mock.MatchedBy(func(c *bool) bool {
		return c != nil && *c
	})).Return([]domain.Tarea{done}, nil)

	req := authedRequest(t, userRepo, http.MethodGet, "/tarea/filter/completed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var got []TareaResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.True(t, got[0].Completed)

	tareaRepo.AssertExpectations(t)
}

// ============================================================================
// Create
// ============================================================================

func TestTareaCreate_Created(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	tareaRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tarea")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Tarea).ID = 10
		}).
		Return(nil)

	req := authedRequest(t, userRepo, http.MethodPost, "/tarea/create", map[string]any{
		"title":       "Buy groceries",
		"description": "Milk and eggs",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	var got TareaResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, int64(10), got.ID)
	assert.False(t, got.Completed)
	assert.Equal(t, "john", got.Owner)
}

func TestTareaCreate_ShortTitle(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	req := authedRequest(t, userRepo, http.MethodPost, "/tarea/create", map[string]any{
		"title": "ab",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Title must be at least 3 characters long.", env.Error.Message)

	tareaRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// A client-supplied completed flag is stored; owner is always the caller.
func TestTareaCreate_AcceptsCompletedIgnoresOwner(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	var captured *domain.Tarea
	tareaRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tarea")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Tarea)
			captured.ID = 11
		}).
		Return(nil)

	req := authedRequest(t, userRepo, http.MethodPost, "/tarea/create", map[string]any{
		"title":     "Ship release",
		"completed": true,
		"owner":     "someone-else",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, captured)
	assert.True(t, captured.Completed)
	assert.Equal(t, testUserID, captured.OwnerID)

	env := decodeEnvelope(t, rec)
	var got TareaResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.True(t, got.Completed)
}

// Completed defaults to false when the payload omits it.
func TestTareaCreate_DefaultsToIncomplete(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	var captured *domain.Tarea
	tareaRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tarea")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.Tarea)
			captured.ID = 12
		}).
		Return(nil)

	req := authedRequest(t, userRepo, http.MethodPost, "/tarea/create", map[string]any{
		"title": "Ship release",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, captured)
	assert.False(t, captured.Completed)
}

// ============================================================================
// Detail
// ============================================================================

func TestTareaDetail_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	ta := sampleTareas()[0]
	tareaRepo.On("GetByOwnerAndID", mock.Anything, testUserID, int64(1)).Return(&ta, nil)

	req := authedRequest(t, userRepo, http.MethodGet, "/tarea/detail/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var got TareaResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Buy groceries", got.Title)
	assert.Equal(t, "john", got.Owner)
}

// A tarea owned by another user yields the same 404 as a missing one.
func TestTareaDetail_ForeignTarea(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	tareaRepo.On("GetByOwnerAndID", mock.Anything, testUserID, int64(99)).
		Return(nil, apperrors.NotFound("tarea", int64(99)))

	req := authedRequest(t, userRepo, http.MethodGet, "/tarea/detail/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestTareaDetail_NonNumericID(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	req := authedRequest(t, userRepo, http.MethodGet, "/tarea/detail/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	tareaRepo.AssertNotCalled(t, "GetByOwnerAndID", mock.Anything, mock.Anything, mock.Anything)
}

// ============================================================================
// Update
// ============================================================================

func TestTareaUpdate_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	updated := sampleTareas()[0]
	updated.Completed = true

	tareaRepo.On("UpdateFields", mock.Anything, testUserID, int64(1), mock.MatchedBy(func(p domain.TareaPatch) bool {
		return p.Completed != nil && *p.Completed && p.Title == nil && p.Description == nil
	})).Return(&updated, nil)

	req := authedRequest(t, userRepo, http.MethodPatch, "/tarea/update/1", map[string]any{
		"completed": true,
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var got TareaResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.True(t, got.Completed)

	tareaRepo.AssertExpectations(t)
}

// One unknown field rejects the whole request, valid siblings included.
func TestTareaUpdate_UnknownFieldRejectsAll(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	req := authedRequest(t, userRepo, http.MethodPatch, "/tarea/update/1", map[string]any{
		"title": "Valid new title",
		"owner": "someone-else",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Invalid fields: owner. Only title, description, and completed can be updated.", env.Error.Message)

	tareaRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Rejected field names are listed sorted, so the message is deterministic.
func TestTareaUpdate_MultipleUnknownFieldsSorted(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	req := authedRequest(t, userRepo, http.MethodPatch, "/tarea/update/1", map[string]any{
		"owner":      "someone-else",
		"created_at": "2026-01-01T00:00:00Z",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Invalid fields: created_at, owner. Only title, description, and completed can be updated.", env.Error.Message)

	tareaRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTareaUpdate_EmptyPayload(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	req := authedRequest(t, userRepo, http.MethodPatch, "/tarea/update/1", map[string]any{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "No valid fields to update. Only title, description, and completed can be updated.", env.Error.Message)
}

func TestTareaUpdate_ShortTitle(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	req := authedRequest(t, userRepo, http.MethodPatch, "/tarea/update/1", map[string]any{
		"title": "ab",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Title must be at least 3 characters long.", env.Error.Message)
}

// ============================================================================
// Delete
// ============================================================================

func TestTareaDelete_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	tareaRepo.On("DeleteByOwnerAndID", mock.Anything, testUserID, int64(1)).Return(nil)

	req := authedRequest(t, userRepo, http.MethodDelete, "/tarea/delete/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	tareaRepo.AssertExpectations(t)
}

func TestTareaDelete_ForeignTarea(t *testing.T) {
	userRepo := new(mockUserRepo)
	tareaRepo := new(mockTareaRepo)
	router := testRouter(userRepo, tareaRepo)

	tareaRepo.On("DeleteByOwnerAndID", mock.Anything, testUserID, int64(99)).
		Return(apperrors.NotFound("tarea", int64(99)))

	req := authedRequest(t, userRepo, http.MethodDelete, "/tarea/delete/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
