package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdid/idwallet"
	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/id"
)

func newTestServer(t *testing.T) *httptest.Server {
	logger, _ := logtest.NewNullLogger()
	cfg := DefaultServeConfig()
	cfg.EnableCORS = true
	srv := httptest.NewServer(NewRouter(idwallet.New(idwallet.WithLogger(logger)), &cfg, logger))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, req interface{}) (int, []byte) {
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	defer resp.Body.Close()
	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp.StatusCode, raw
}

func decryptDocument(t *testing.T) json.RawMessage {
	h, err := curve.HashToPoint([]byte("server"), []byte("IDWALLET-TEST-H"))
	require.NoError(t, err)
	bts, err := json.Marshal(map[string]interface{}{
		"global": id.GlobalContext{
			OnChainCommitmentKey: id.CommitmentKey{G: curve.Generator(), H: h},
			GenesisString:        "server",
		},
		"encryptedAmounts": []string{},
		"prfKey":           "s2",
		"credentialNumber": 0,
	})
	require.NoError(t, err)
	return bts
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestDecrypt(t *testing.T) {
	srv := newTestServer(t)
	status, body := post(t, srv, "/decrypt", OperationRequest{Input: decryptDocument(t)})
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)

	status, body := post(t, srv, "/decrypt", OperationRequest{Input: json.RawMessage(`{"prfKey": "s2"}`)})
	assert.Equal(t, http.StatusBadRequest, status)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "missing_field", errResp.Code)
	assert.Equal(t, "global", errResp.Field)

	status, body = post(t, srv, "/deployment", OperationRequest{Signature: "abc"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "signature_decode", errResp.Code)

	status, body = post(t, srv, "/pub-info", OperationRequest{})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "missing_field", errResp.Code)
}

func TestClassify(t *testing.T) {
	for _, c := range []struct {
		err  error
		code string
	}{
		{&idwallet.ThresholdError{Threshold: 0, Revokers: 1}, "threshold"},
		{&idwallet.ContextError{Reason: "empty"}, "context"},
		{&idwallet.DuplicateAttributeError{Tag: id.TagDob}, "duplicate_attribute"},
		{&idwallet.UnknownAttributeError{Tag: id.TagDob}, "unknown_attribute"},
		{&idwallet.AmountOutOfRangeError{Index: 3}, "amount_out_of_range"},
		{&idwallet.KeyDerivationError{Field: "prfKey"}, "key_derivation"},
		{&idwallet.CredentialBuildError{Err: context.Canceled}, "credential_build"},
		{&idwallet.PreIdentityBuildError{Err: context.Canceled}, "pre_identity_build"},
		{context.DeadlineExceeded, "internal"},
	} {
		_, got, _ := classify(c.err)
		assert.Equal(t, c.code, got, "%T", c.err)
	}
}

func TestRunShutdown(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cfg := DefaultServeConfig()
	cfg.Port = 0
	assert.Error(t, Run(context.Background(), &cfg, idwallet.New(), logger))

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg = DefaultServeConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = port
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, &cfg, idwallet.New(), logger) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
