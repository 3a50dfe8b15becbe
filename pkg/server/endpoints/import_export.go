package endpoints

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/doodlesbykumbi/footprint/pkg/audit"
	"github.com/doodlesbykumbi/footprint/pkg/history"
	"github.com/doodlesbykumbi/footprint/pkg/server"
)

// ImportResponse reports what a CSV import stored and skipped
type ImportResponse struct {
	Imported int                `json:"imported"`
	Rejected []history.RowError `json:"rejected"`
	Warnings []history.RowError `json:"warnings,omitempty"`
}

// csvBody returns the uploaded CSV: the multipart field "file" or the raw body.
// Either way the request is capped at maxBodyBytes; reads past it fail with
// *http.MaxBytesError.
func csvBody(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		return nil, nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("multipart field \"file\" is required")
	}
	return file, func() { _ = file.Close() }, nil
}

func handleImportEntries(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}

		body, closeBody, err := csvBody(w, r)
		if err != nil {
			if isTooLarge(err) {
				tooLarge(w)
				return
			}
			badRequest(w, err.Error())
			return
		}
		defer closeBody()

		alias, err := aliasFor(s, r, id, "")
		if err != nil {
			internalError(s, w, r, err)
			return
		}

		result, err := history.ReadCSV(body, history.ImportOptions{
			UserID:  id.UserID,
			Alias:   alias,
			Factors: s.Factors(),
		})
		if err != nil {
			var missing *history.MissingColumnsError
			if errors.As(err, &missing) {
				b := errorBody("missing_columns", missing.Error())
				b["columns"] = missing.Columns
				respondWithError(w, http.StatusUnprocessableEntity, b)
				return
			}
			if isTooLarge(err) {
				tooLarge(w)
				return
			}
			badRequest(w, err.Error())
			return
		}

		if len(result.Entries) > 0 {
			if err := s.EntriesStore.CreateBatch(r.Context(), result.Entries); err != nil {
				internalError(s, w, r, err)
				return
			}
		}

		s.Auditor.Log(r.Context(), audit.EntryImportEvent{
			UserID:   id.UserID,
			ClientIP: clientIP(id),
			Imported: len(result.Entries),
			Rejected: len(result.Errors),
		})

		rejected := result.Errors
		if rejected == nil {
			rejected = []history.RowError{}
		}
		respondWithJSON(w, http.StatusOK, ImportResponse{
			Imported: len(result.Entries),
			Rejected: rejected,
			Warnings: result.Warnings,
		})
	}
}

func handleExportEntries(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}

		entries, err := s.EntriesStore.List(r.Context(), id.UserID, "", "")
		if err != nil {
			internalError(s, w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": history.ExportFileName}))
		if err := history.WriteCSV(w, entries); err != nil {
			s.Logger.Sugar().Warnw("CSV export interrupted", "user", id.UserID, "error", err)
		}
	}
}
