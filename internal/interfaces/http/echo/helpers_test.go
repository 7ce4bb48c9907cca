package echo_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	httpecho "github.com/mohammadpnp/field-productivity/internal/interfaces/http/echo"
)

func newRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req
}

func asManager(req *http.Request) *http.Request {
	req.Header.Set(httpecho.HeaderUserID, "user-1")
	req.Header.Set(httpecho.HeaderUserRole, "manager")
	return req
}

func asAdmin(req *http.Request) *http.Request {
	req.Header.Set(httpecho.HeaderUserID, "user-0")
	req.Header.Set(httpecho.HeaderUserRole, "admin")
	return req
}

func asInstaller(req *http.Request, installerID string) *http.Request {
	req.Header.Set(httpecho.HeaderUserID, "user-2")
	req.Header.Set(httpecho.HeaderUserRole, "installer")
	req.Header.Set(httpecho.HeaderInstallerID, installerID)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	return got
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	body, ok := decodeBody(t, rec)["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error payload, got %s", rec.Body.String())
	}
	code, _ := body["code"].(string)
	return code
}
