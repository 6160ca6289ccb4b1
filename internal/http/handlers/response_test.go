package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-eco-backend/internal/footprint"
	"github.com/tbourn/go-eco-backend/internal/services"
)

func envelopeRouter(t *testing.T, buf *bytes.Buffer, h gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	lg := zerolog.New(buf)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("requestID", "rid-7")
		c.Set("logger", &lg)
		c.Next()
	})
	r.GET("/x", h)
	return r
}

func TestFail_ServerErrorsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	r := envelopeRouter(t, &buf, func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatal(err)
	}
	if w.Code != 500 || er.RequestID != "rid-7" || er.Code != ErrCodeInternal || er.Message != "kaboom" {
		t.Fatalf("status=%d envelope=%+v", w.Code, er)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("not logged: %s", buf.String())
	}
}

func TestFail_ClientErrorsAreNotLogged(t *testing.T) {
	var buf bytes.Buffer
	r := envelopeRouter(t, &buf, func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusNotFound || buf.Len() != 0 {
		t.Fatalf("status=%d log=%s", w.Code, buf.String())
	}
}

func TestFailService_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&footprint.InvalidInputError{Field: "treesOwned", Reason: "must be a whole number"}, 400, ErrCodeInvalidInput},
		{errors.Join(services.ErrPersistence, errors.New("redis down")), 500, ErrCodePersistenceFailed},
		{services.ErrEmptyPrompt, 400, ErrCodeBadRequest},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		r := envelopeRouter(t, &buf, func(c *gin.Context) { failService(c, tc.err) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		var er ErrorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &er)
		if w.Code != tc.status || er.Code != tc.code {
			t.Fatalf("%v: status=%d code=%s", tc.err, w.Code, er.Code)
		}
	}
}
