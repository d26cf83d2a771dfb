package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/iudanet/rulekeeper/pkg/api"
)

const (
	contentTypeJSON     = "application/json"
	contentTypeProtobuf = "application/x-protobuf"
)

// WriteError writes an error in the server's {"errors":[{"msg":...}]} format
func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = encodeJSON(w, api.NewErrorResponse(msg))
}

func encodeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if err := encodeJSON(w, v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeProtobuf(w http.ResponseWriter, logger *slog.Logger, b []byte) {
	w.Header().Set("Content-Type", contentTypeProtobuf)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		logger.Error("Failed to write response", "error", err)
	}
}
