package endpoints

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/footprint/pkg/emissions"
	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

func TestCreateEntry(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.aliases.On("SetAlias", mock.Anything, "user-1", "GreenRider").Return(nil)
	env.entries.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Entry) bool {
		return e.UserID == "user-1" && e.Date == "2024-05-07" && e.Alias == "GreenRider" &&
			e.TransportMode == emissions.ModeBus
	})).Return(nil)

	w := env.do(t, "POST", "/entries", tok, map[string]interface{}{
		"date":           "2024/05/07",
		"transport_mode": "Matatu/Bus",
		"distance":       20,
		"alias":          "GreenRider",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry model.Entry
	decode(t, w, &entry)
	assert.InDelta(t, 2.1, entry.TotalEmission, 1e-9)
	assert.NotEmpty(t, entry.ID)
	assert.Contains(t, env.audit.String(), "entry-create")
	env.entries.AssertExpectations(t)
	env.aliases.AssertExpectations(t)
}

func TestCreateEntry_DefaultsDateAndSavedAlias(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.aliases.On("GetAlias", mock.Anything, "user-1").Return("Saved", nil)
	env.entries.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Entry) bool {
		return e.Date == "2024-05-08" && e.Alias == "Saved"
	})).Return(nil)

	w := env.do(t, "POST", "/entries", tok, map[string]interface{}{"transport_mode": "bicycle_walking"})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env.aliases.AssertNotCalled(t, "SetAlias", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateEntry_GuestAliasNotSaved(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "guest-abc", true)
	env.entries.On("Create", mock.Anything, mock.Anything).Return(nil)

	w := env.do(t, "POST", "/entries", tok, map[string]interface{}{"transport_mode": "bus", "alias": "Visitor"})

	require.Equal(t, http.StatusCreated, w.Code)
	env.aliases.AssertNotCalled(t, "SetAlias", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateEntry_Invalid(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)

	w := env.do(t, "POST", "/entries", tok, map[string]interface{}{"transport_mode": "bus", "date": "yesterday"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, "POST", "/entries", tok, map[string]interface{}{"transport_mode": "bus", "lpg": -2})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, "POST", "/entries", "", map[string]interface{}{"transport_mode": "bus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListAndGetEntries(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	entries := []model.Entry{{ID: "e1", UserID: "user-1", Date: "2024-05-01", TotalEmission: 1}}
	env.entries.On("List", mock.Anything, "user-1", "2024-05-01", "").Return(entries, nil)
	env.entries.On("Get", mock.Anything, "user-1", "e1").Return(&entries[0], nil)
	env.entries.On("Get", mock.Anything, "user-1", "missing").Return(nil, store.ErrEntryNotFound)

	w := env.do(t, "GET", "/entries?from=2024-05-01", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list EntriesResponse
	decode(t, w, &list)
	assert.Equal(t, 1, list.Count)

	w = env.do(t, "GET", "/entries?from=someday", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "GET", "/entries/e1", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/entries/missing", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"entry not found"}}`, w.Body.String())
}

func TestDeleteEntry(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.entries.On("Delete", mock.Anything, "user-1", "e1").Return(nil)
	env.entries.On("Delete", mock.Anything, "user-1", "e2").Return(store.ErrEntryNotFound)
	env.entries.On("Delete", mock.Anything, "user-1", "e3").Return(errors.New("db down"))
	env.entries.On("Delete", mock.Anything, "user-1", "e4").Return(fmt.Errorf("%w: connection refused", store.ErrReplicaUnavailable))

	assert.Equal(t, http.StatusNoContent, env.do(t, "DELETE", "/entries/e1", tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, "DELETE", "/entries/e2", tok, nil).Code)
	assert.Equal(t, http.StatusInternalServerError, env.do(t, "DELETE", "/entries/e3", tok, nil).Code)
	w := env.do(t, "DELETE", "/entries/e4", tok, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unavailable"`)
	assert.Contains(t, env.audit.String(), "user-1 deleted entry e1")
	assert.Contains(t, env.audit.String(), "user-1 tried to delete entry e2")
}

const importCSV = "date,distance,transport_mode,electricity,lpg,notes\n" +
	"2024-05-01,10,car_petrol,2,0,commute\n" +
	"2024-05-02,abc,bus,0,0,\n" +
	"2024-05-03,5,Motorbike,0,1,\n"

func TestImportEntries(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.aliases.On("GetAlias", mock.Anything, "user-1").Return("", store.ErrAliasNotFound)
	env.entries.On("CreateBatch", mock.Anything, mock.MatchedBy(func(es []model.Entry) bool {
		return len(es) == 2 && es[0].Date == "2024-05-01" && es[1].Date == "2024-05-03"
	})).Return(nil)

	w := env.do(t, "POST", "/entries/import", tok, importCSV)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ImportResponse
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Imported)
	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, 3, resp.Rejected[0].Line)
	assert.Contains(t, env.audit.String(), "user-1 imported 2 entries (1 rows rejected)")
}

func TestImportEntries_Multipart(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.aliases.On("GetAlias", mock.Anything, "user-1").Return("Saved", nil)
	env.entries.On("CreateBatch", mock.Anything, mock.MatchedBy(func(es []model.Entry) bool {
		return len(es) == 2 && es[0].Alias == "Saved"
	})).Return(nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "history.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte(importCSV))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/entries/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env.entries.AssertExpectations(t)
}

func TestImportEntries_UnknownModeWarns(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.aliases.On("GetAlias", mock.Anything, "user-1").Return("", store.ErrAliasNotFound)
	env.entries.On("CreateBatch", mock.Anything, mock.MatchedBy(func(es []model.Entry) bool {
		return len(es) == 1 && es[0].TransportMode == emissions.ModeOther && es[0].TotalEmission == 0.36
	})).Return(nil)

	w := env.do(t, "POST", "/entries/import", tok, "date,distance,transport_mode,electricity,lpg\n2024-05-01,8,Boda Boda,2,0\n")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ImportResponse
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.Imported)
	assert.Empty(t, resp.Rejected)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, 2, resp.Warnings[0].Line)
	assert.Contains(t, resp.Warnings[0].Reason, `"Boda Boda"`)
	env.entries.AssertExpectations(t)
}

// oversizedCSV returns a valid CSV longer than maxBodyBytes whose limit falls
// inside the lpg value of the last row, so a truncated read still parses.
func oversizedCSV() string {
	const (
		header = "date,distance,transport_mode,electricity,lpg,notes\n"
		row    = "2024-05-01,1,bus,0,0,\n"
		head   = "2024-05-02,1,bus,0,123"
	)
	cut := maxBodyBytes - len(head)
	n := (cut-len(header))/len(row) - 1
	pad := cut - len(header) - n*len(row) - len(row)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(strings.Repeat(row, n))
	b.WriteString("2024-05-01,1,bus,0,0," + strings.Repeat("x", pad) + "\n")
	b.WriteString(head + "4,\n")
	return b.String()
}

func TestImportEntries_TooLarge(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.aliases.On("GetAlias", mock.Anything, "user-1").Return("", store.ErrAliasNotFound)

	csv := oversizedCSV()
	require.Greater(t, len(csv), maxBodyBytes)

	w := env.do(t, "POST", "/entries/import", tok, csv)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"too_large"`)
	env.entries.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestImportEntries_MultipartTooLarge(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.aliases.On("GetAlias", mock.Anything, "user-1").Return("", store.ErrAliasNotFound)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "history.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte(oversizedCSV()))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/entries/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
	env.entries.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestImportEntries_MissingColumns(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.aliases.On("GetAlias", mock.Anything, "user-1").Return("", store.ErrAliasNotFound)

	w := env.do(t, "POST", "/entries/import", tok, "date,distance\n2024-05-01,3\n")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"columns":["transport_mode","electricity","lpg"]`)
	env.entries.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestExportEntries(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "user-1", false)
	env.entries.On("List", mock.Anything, "user-1", "", "").Return([]model.Entry{
		{ID: "e1", UserID: "user-1", Date: "2024-05-01", TransportMode: emissions.ModeBus, Distance: 10, TransportEmission: 1.05, TotalEmission: 1.05},
	}, nil)

	w := env.do(t, "GET", "/entries/export", tok, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=co2_history.csv`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "id,user_id,alias,date,transport_mode")
	assert.Contains(t, w.Body.String(), "e1,user-1,,2024-05-01,bus")
}
