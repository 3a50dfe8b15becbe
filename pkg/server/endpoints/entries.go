package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/footprint/pkg/audit"
	"github.com/doodlesbykumbi/footprint/pkg/history"
	"github.com/doodlesbykumbi/footprint/pkg/identity"
	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

type entryRequest struct {
	// Date defaults to today. Any layout accepted by CSV import works.
	Date string `json:"date"`
	activityRequest
	Alias string `json:"alias" validate:"max=64"`
	Notes string `json:"notes" validate:"max=1000"`
}

// EntriesResponse lists entries
type EntriesResponse struct {
	Entries []model.Entry `json:"entries"`
	Count   int           `json:"count"`
}

// RegisterEntriesEndpoints registers the /entries routes
func RegisterEntriesEndpoints(s *server.Server) {
	r := authenticated(s, "/entries")

	// Fixed paths first, before /{id}
	r.HandleFunc("/import", handleImportEntries(s)).Methods("POST")
	r.HandleFunc("/export", handleExportEntries(s)).Methods("GET")

	r.HandleFunc("", handleCreateEntry(s)).Methods("POST")
	r.HandleFunc("", handleListEntries(s)).Methods("GET")
	r.HandleFunc("/{id}", handleGetEntry(s)).Methods("GET")
	r.HandleFunc("/{id}", handleDeleteEntry(s)).Methods("DELETE")
}

// aliasFor picks the alias stored on a new entry: the requested one, else
// the user's saved alias, else empty (shown as Anonymous).
func aliasFor(s *server.Server, r *http.Request, id *identity.Identity, requested string) (string, error) {
	if alias := strings.TrimSpace(requested); alias != "" {
		return alias, nil
	}
	alias, err := s.AliasesStore.GetAlias(r.Context(), id.UserID)
	if errors.Is(err, store.ErrAliasNotFound) {
		return "", nil
	}
	return alias, err
}

func handleCreateEntry(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}

		var req entryRequest
		if !decodeJSON(s, w, r, &req) {
			return
		}

		date := s.Now()
		if req.Date != "" {
			d, err := history.ParseDate(req.Date)
			if err != nil {
				unprocessable(w, err.Error())
				return
			}
			date = d
		}
		act, err := req.activity()
		if err != nil {
			unprocessable(w, err.Error())
			return
		}

		alias, err := aliasFor(s, r, id, req.Alias)
		if err != nil {
			internalError(s, w, r, err)
			return
		}
		// A named entry also becomes the user's leaderboard alias
		if req.Alias != "" && !id.Guest {
			if err := s.AliasesStore.SetAlias(r.Context(), id.UserID, alias); err != nil {
				internalError(s, w, r, err)
				return
			}
		}

		entry := model.NewEntry(id.UserID, alias, date, act, s.Factors(), strings.TrimSpace(req.Notes))
		event := audit.EntryCreateEvent{
			UserID:   id.UserID,
			ClientIP: clientIP(id),
			EntryID:  entry.ID,
			Date:     entry.Date,
			Total:    entry.TotalEmission,
		}
		if err := s.EntriesStore.Create(r.Context(), &entry); err != nil {
			event.ErrorMessage = err.Error()
			s.Auditor.Log(r.Context(), event)
			internalError(s, w, r, err)
			return
		}
		event.Success = true
		s.Auditor.Log(r.Context(), event)

		respondWithJSON(w, http.StatusCreated, entry)
	}
}

// dateRange reads optional from/to query parameters as YYYY-MM-DD bounds.
func dateRange(r *http.Request) (string, string, error) {
	var bounds [2]string
	for i, name := range []string{"from", "to"} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		d, err := history.ParseDate(raw)
		if err != nil {
			return "", "", err
		}
		bounds[i] = d.Format(model.DateLayout)
	}
	return bounds[0], bounds[1], nil
}

func handleListEntries(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		from, to, err := dateRange(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}

		entries, err := s.EntriesStore.List(r.Context(), id.UserID, from, to)
		if err != nil {
			internalError(s, w, r, err)
			return
		}
		if entries == nil {
			entries = []model.Entry{}
		}
		respondWithJSON(w, http.StatusOK, EntriesResponse{Entries: entries, Count: len(entries)})
	}
}

func handleGetEntry(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}

		entry, err := s.EntriesStore.Get(r.Context(), id.UserID, mux.Vars(r)["id"])
		if err != nil {
			if errors.Is(err, store.ErrEntryNotFound) {
				notFound(w, "entry not found")
				return
			}
			internalError(s, w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, entry)
	}
}

func handleDeleteEntry(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		entryID := mux.Vars(r)["id"]

		event := audit.EntryDeleteEvent{UserID: id.UserID, ClientIP: clientIP(id), EntryID: entryID}
		if err := s.EntriesStore.Delete(r.Context(), id.UserID, entryID); err != nil {
			event.ErrorMessage = err.Error()
			s.Auditor.Log(r.Context(), event)
			switch {
			case errors.Is(err, store.ErrEntryNotFound):
				notFound(w, "entry not found")
			case errors.Is(err, store.ErrReplicaUnavailable):
				unavailable(w, "entry could not be deleted from the remote database, try again later")
			default:
				internalError(s, w, r, err)
			}
			return
		}
		event.Success = true
		s.Auditor.Log(r.Context(), event)

		w.WriteHeader(http.StatusNoContent)
	}
}
