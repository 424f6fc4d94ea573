package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/settlo/backend/pkg/logging"
)

type recordingNotifier struct {
	dispatched []*Lead
}

func (n *recordingNotifier) Dispatch(lead *Lead) {
	n.dispatched = append(n.dispatched, lead)
}

type failingRepository struct{}

func (failingRepository) Create(context.Context, *CreateLeadRequest) (*Lead, error) {
	return nil, errors.New("connection refused")
}

func (failingRepository) List(context.Context) ([]*Lead, error) {
	return nil, errors.New("connection refused")
}

func submit(t *testing.T, h *Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Submit(w, req)
	return w
}

func TestSubmit_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &recordingNotifier{}
	handler := NewHandler(repo, notifier, nil, logging.Default())

	w := submit(t, handler, CreateLeadRequest{
		Name:   "Jo",
		Email:  "jo@x.com",
		Phone:  "123",
		Source: "hero",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Lead    struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			CreatedAt string `json:"createdAt"`
		} `json:"lead"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.True(t, resp.Success)
	require.Equal(t, "Lead submitted successfully!", resp.Message)
	require.Equal(t, "Jo", resp.Lead.Name)
	require.NotEmpty(t, resp.Lead.ID)
	require.NotEmpty(t, resp.Lead.CreatedAt)

	require.Len(t, notifier.dispatched, 1)
	require.Equal(t, "Jo", notifier.dispatched[0].Name)

	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestSubmit_MissingRequiredFields(t *testing.T) {
	cases := map[string]CreateLeadRequest{
		"no name":   {Email: "jo@x.com", Phone: "123", Source: "hero"},
		"no email":  {Name: "Jo", Phone: "123", Source: "hero"},
		"no phone":  {Name: "Jo", Email: "jo@x.com", Source: "hero"},
		"no source": {Name: "Jo", Email: "jo@x.com", Phone: "123"},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			repo := NewInMemoryRepository()
			notifier := &recordingNotifier{}
			handler := NewHandler(repo, notifier, nil, logging.Default())

			w := submit(t, handler, payload)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.False(t, resp.Success)
			require.Contains(t, resp.Error, "required")

			stored, err := repo.List(context.Background())
			require.NoError(t, err)
			require.Empty(t, stored, "no lead may be persisted")
			require.Empty(t, notifier.dispatched, "notifier must not be invoked")
		})
	}
}

func TestSubmit_InvalidSource(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &recordingNotifier{}
	handler := NewHandler(repo, notifier, nil, logging.Default())

	w := submit(t, handler, CreateLeadRequest{
		Name:   "Jo",
		Email:  "jo@x.com",
		Phone:  "123",
		Source: "newsletter",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "source")

	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, stored)
	require.Empty(t, notifier.dispatched)
}

func TestSubmit_InvalidJSON(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, nil, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader("{"))
	w := httptest.NewRecorder()
	handler.Submit(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmit_StoreFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := NewHandler(failingRepository{}, notifier, nil, logging.Default())

	w := submit(t, handler, CreateLeadRequest{
		Name:   "Jo",
		Email:  "jo@x.com",
		Phone:  "123",
		Source: "contact",
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.False(t, resp.Success)
	require.Equal(t, "Failed to submit lead. Please try again.", resp.Error)
	require.NotContains(t, resp.Error, "connection refused", "internal detail must not leak")

	require.Empty(t, notifier.dispatched, "notifier must not run after a store failure")
}

func TestList_NewestFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, nil, nil, logging.Default())

	first := submit(t, handler, CreateLeadRequest{Name: "First", Email: "a@x.com", Phone: "1", Source: "contact"})
	require.Equal(t, http.StatusCreated, first.Code)
	second := submit(t, handler, CreateLeadRequest{Name: "Second", Email: "b@x.com", Phone: "2", Source: "hero"})
	require.Equal(t, http.StatusCreated, second.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool    `json:"success"`
		Leads   []*Lead `json:"leads"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Leads, 2)
	require.Equal(t, "Second", resp.Leads[0].Name)
	require.Equal(t, "First", resp.Leads[1].Name)
}

func TestList_StoreFailure(t *testing.T) {
	handler := NewHandler(failingRepository{}, nil, nil, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.False(t, resp.Success)
	require.Equal(t, "Failed to fetch leads", resp.Error)
}
