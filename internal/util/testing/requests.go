package test_utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type Response struct {
	Code int
	Body []byte
}

// MakeAPIRequest performs a request against a test router. The auth header is
// passed as-is ("Bearer <token>" or empty for anonymous calls).
func MakeAPIRequest(router *gin.Engine, method, url, authHeader string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func MakeRequest(
	t *testing.T,
	router *gin.Engine,
	method, url, authHeader string,
	body any,
	expectedStatus int,
) Response {
	t.Helper()

	w := MakeAPIRequest(router, method, url, authHeader, body)
	require.Equal(t, expectedStatus, w.Code, "unexpected status for %s %s: %s", method, url, w.Body.String())

	return Response{Code: w.Code, Body: w.Body.Bytes()}
}

func MakeGetRequest(t *testing.T, router *gin.Engine, url, authHeader string, expectedStatus int) Response {
	t.Helper()
	return MakeRequest(t, router, http.MethodGet, url, authHeader, nil, expectedStatus)
}

func MakeGetRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url, authHeader string,
	expectedStatus int,
	out any,
) {
	t.Helper()

	resp := MakeGetRequest(t, router, url, authHeader, expectedStatus)
	require.NoError(t, json.Unmarshal(resp.Body, out))
}

func MakeRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	method, url, authHeader string,
	body any,
	expectedStatus int,
	out any,
) {
	t.Helper()

	resp := MakeRequest(t, router, method, url, authHeader, body, expectedStatus)
	require.NoError(t, json.Unmarshal(resp.Body, out))
}
