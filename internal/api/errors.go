package api

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/mgpai22/cueline/internal/caption"
	"github.com/mgpai22/cueline/internal/media"
	"github.com/mgpai22/cueline/internal/playback"
	"github.com/mgpai22/cueline/internal/subtitle"
)

// status and code for each error kind a handler can surface
var errorTable = []struct {
	err    error
	status int
	code   string
}{
	{caption.ErrEmptyText, http.StatusBadRequest, "EMPTY_TEXT"},
	{caption.ErrInvalidNumber, http.StatusBadRequest, "INVALID_NUMBER"},
	{caption.ErrInvalidRange, http.StatusBadRequest, "INVALID_RANGE"},
	{caption.ErrUnknownField, http.StatusBadRequest, "UNKNOWN_FIELD"},
	{caption.ErrIndexOutOfRange, http.StatusNotFound, "INDEX_OUT_OF_RANGE"},
	{subtitle.ErrEmptyInput, http.StatusUnprocessableEntity, "EMPTY_INPUT"},
	{subtitle.ErrMalformedBlock, http.StatusBadRequest, "MALFORMED_BLOCK"},
	{subtitle.ErrUnsupportedFormat, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
	{media.ErrUnsupportedFileType, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE"},
	{playback.ErrNoMedia, http.StatusConflict, "NO_MEDIA"},
	{playback.ErrInvalidValue, http.StatusBadRequest, "INVALID_NUMBER"},
	{fs.ErrNotExist, http.StatusNotFound, "NOT_FOUND"},
}

func classify(err error) (int, string) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// writeServiceError maps a domain error onto the JSON error envelope
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	WriteError(w, status, msg, code)
}
