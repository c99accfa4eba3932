package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"csv-drop/internal/storage"
)

// uploadFormField is the multipart field that carries the file.
const uploadFormField = "file"

// uploadResp is the JSON response returned after a successful file upload.
type uploadResp struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// rawFileName returns the filename parameter exactly as the client sent it.
// multipart.Part.FileName applies filepath.Base, which would hide the
// directory components of the supplied name.
func rawFileName(p *multipart.Part) string {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// uploadHandler handles POST /upload-csv/. It streams the "file" part of
// the multipart body into store under the client-supplied filename and
// echoes that name back. maxBytes <= 0 means no body limit.
func uploadHandler(store storage.Store, maxBytes int64, m *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := RequestIDFromContext(r.Context())

		fail := func(status int, msg, reason string, err error) {
			m.RecordUploadError(reason)
			if status >= 500 {
				Error("upload_failed", map[string]any{"rid": rid, "reason": reason}, err)
			} else {
				fields := map[string]any{"rid": rid, "reason": reason, "status": status}
				if err != nil {
					fields["error"] = err.Error()
				}
				Warn("upload_rejected", fields)
			}
			http.Error(w, msg, status)
		}

		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}

		mr, err := r.MultipartReader()
		if err != nil {
			fail(http.StatusBadRequest, "bad multipart", "bad_multipart", err)
			return
		}

		var part *multipart.Part
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				if isTooLarge(err) {
					fail(http.StatusRequestEntityTooLarge, "file too large", "too_large", err)
					return
				}
				fail(http.StatusBadRequest, "bad multipart", "bad_multipart", err)
				return
			}
			if p.FormName() != uploadFormField {
				Debug("upload_part_skipped", map[string]any{"rid": rid, "field": p.FormName()})
				_ = p.Close()
				continue
			}
			part = p
			break
		}

		if part == nil {
			fail(http.StatusBadRequest, "missing file", "missing_file", nil)
			return
		}
		defer func() { _ = part.Close() }()

		filename := rawFileName(part)
		if filename == "" {
			fail(http.StatusBadRequest, "missing file", "missing_file", nil)
			return
		}

		n, err := store.Put(r.Context(), filename, part)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrUnsafeName):
				fail(http.StatusBadRequest, "invalid filename", "unsafe_name", err)
			case isTooLarge(err):
				fail(http.StatusRequestEntityTooLarge, "file too large", "too_large", err)
			default:
				fail(http.StatusInternalServerError, "upload failed", "storage", err)
			}
			return
		}

		m.RecordUpload(n)
		Info("csv_uploaded", map[string]any{
			"rid":      rid,
			"filename": filename,
			"bytes":    n,
			"storage":  store.Kind(),
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(uploadResp{
			Filename: filename,
			Status:   "uploaded",
		})
	})
}
