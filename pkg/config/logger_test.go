package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func TestNewLokiLogger_InvalidLevel(t *testing.T) {
	RegisterTestingT(t)

	_, err := NewLokiLogger("todos", LoggingConfig{Level: "loud"})

	Expect(err).To(HaveOccurred())
}

func TestLokiLogger_PushesToLoki(t *testing.T) {
	RegisterTestingT(t)

	received := make(chan LokiLogEntry, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Expect(r.URL.Path).To(Equal("/loki/api/v1/push"))

		body, _ := io.ReadAll(r.Body)

		var entry LokiLogEntry
		_ = json.Unmarshal(body, &entry)
		received <- entry

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := newLokiLogger(zap.NewNop(), "todos", server.URL)
	logger.ErrorWithTrace(context.Background(), "request failed",
		zap.Int("status", 500),
		zap.Error(errors.New("boom")))

	var entry LokiLogEntry
	Eventually(received, time.Second).Should(Receive(&entry))

	Expect(entry.Streams).To(HaveLen(1))
	Expect(entry.Streams[0].Stream).To(HaveKeyWithValue("level", "error"))

	var line map[string]interface{}
	Expect(json.Unmarshal([]byte(entry.Streams[0].Values[0][1]), &line)).To(Succeed())
	Expect(line).To(HaveKeyWithValue("message", "request failed"))
	Expect(line).To(HaveKeyWithValue("error", "boom"))
	Expect(line).To(HaveKeyWithValue("status", float64(500)))
}

func TestLokiLogger_Zerolog(t *testing.T) {
	RegisterTestingT(t)

	var buf bytes.Buffer

	logger := NewNopLogger().Zerolog(&buf, "debug")
	logger.Debug().Str("sql", "SELECT 1").Msg("query")

	Expect(buf.String()).To(ContainSubstring(`"component":"database"`))
	Expect(buf.String()).To(ContainSubstring(`"sql":"SELECT 1"`))
}
