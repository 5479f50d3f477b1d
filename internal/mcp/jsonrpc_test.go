package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/store/memory"
)

func newEmptyServer() *Server {
	return NewServer(journal.NewService(memory.New()), "test")
}

// rpcResponse is the envelope of every reply. Result stays raw so each test
// decodes the shape it expects.
type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type callResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

// session drives a running server over pipes, one line per request.
type session struct {
	t    *testing.T
	in   *io.PipeWriter
	out  *bufio.Reader
	done chan error
}

func startSession(t *testing.T, s *Server) *session {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	sess := &session{t: t, in: inW, out: bufio.NewReader(outR), done: make(chan error, 1)}
	go func() { sess.done <- s.Run(ctx, inR, outW) }()

	t.Cleanup(func() {
		cancel()
		_ = inW.Close()
		_ = outR.Close()
		select {
		case <-sess.done:
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	return sess
}

func (s *session) send(line string) {
	s.t.Helper()
	_, err := io.WriteString(s.in, line+"\n")
	require.NoError(s.t, err)
}

func (s *session) recv() rpcResponse {
	s.t.Helper()
	line, err := s.out.ReadString('\n')
	require.NoError(s.t, err)
	var resp rpcResponse
	require.NoError(s.t, json.Unmarshal([]byte(line), &resp), line)
	return resp
}

func (s *session) roundTrip(line string) rpcResponse {
	s.t.Helper()
	s.send(line)
	return s.recv()
}

func (s *session) callTool(id int, name, args string) callResult {
	s.t.Helper()
	params := `{"name":"` + name + `"`
	if args != "" {
		params += `,"arguments":` + args
	}
	params += "}"
	resp := s.roundTrip(`{"jsonrpc":"2.0","id":` + strconv.Itoa(id) + `,"method":"tools/call","params":` + params + `}`)
	require.Nil(s.t, resp.Error)

	var res callResult
	require.NoError(s.t, json.Unmarshal(resp.Result, &res))
	require.Len(s.t, res.Content, 1)
	return res
}

func TestRun_Initialize(t *testing.T) {
	sess := startSession(t, NewServer(journal.NewService(memory.New()), "1.2.3"))

	resp := sess.roundTrip(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `1`, string(resp.ID))

	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, protocolVersion, result.ProtocolVersion)
	assert.Equal(t, "doglog", result.ServerInfo.Name)
	assert.Equal(t, "1.2.3", result.ServerInfo.Version)
}

func TestRun_Ping(t *testing.T) {
	sess := startSession(t, newEmptyServer())

	resp := sess.roundTrip(`{"jsonrpc":"2.0","id":"abc","method":"ping"}`)
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `"abc"`, string(resp.ID))
	assert.JSONEq(t, `{}`, string(resp.Result))
}

func TestRun_ToolsList(t *testing.T) {
	s := newEmptyServer()
	s.registerTool(toolDef{
		Name:        "test_tool",
		Description: "A test tool",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
		Handler: func(context.Context, json.RawMessage) (any, error) {
			return map[string]bool{"ok": true}, nil
		},
	})
	sess := startSession(t, s)

	resp := sess.roundTrip(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Nil(t, resp.Error)

	var result struct {
		Tools []struct {
			Name        string          `json:"name"`
			InputSchema json.RawMessage `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.InputSchema, tool.Name)
	}
	assert.Equal(t, []string{"list_dogs", "get_insights", "get_recommendations", "get_day", "test_tool"}, names)

	res := sess.callTool(3, "test_tool", "")
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"ok":true}`, res.Content[0].Text)
}

func TestRun_ToolsCall(t *testing.T) {
	sess := startSession(t, newEmptyServer())

	res := sess.callTool(7, "list_dogs", "")
	assert.False(t, res.IsError)
	assert.Equal(t, "text", res.Content[0].Type)
	assert.JSONEq(t, `{"dogs":[]}`, res.Content[0].Text)

	res = sess.callTool(8, "get_insights", `{"dog_id":"ghost"}`)
	assert.True(t, res.IsError, "unknown dog is a tool error, not a protocol error")

	res = sess.callTool(9, "nope", "")
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "unknown tool")
}

func TestRun_ProtocolErrors(t *testing.T) {
	sess := startSession(t, newEmptyServer())

	tests := []struct {
		name string
		line string
		code int
	}{
		{"malformed json", `{not json`, codeParseError},
		{"unknown method", `{"jsonrpc":"2.0","id":3,"method":"resources/list"}`, codeMethodNotFound},
		{"bad call params", `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":"oops"}`, codeInvalidParams},
	}
	for _, tt := range tests {
		resp := sess.roundTrip(tt.line)
		require.NotNil(t, resp.Error, tt.name)
		assert.Equal(t, tt.code, resp.Error.Code, tt.name)
	}
}

func TestRun_NotificationGetsNoResponse(t *testing.T) {
	sess := startSession(t, newEmptyServer())

	// Requests are answered in order, so the first reply after a
	// notification must belong to the following ping.
	sess.send(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	resp := sess.roundTrip(`{"jsonrpc":"2.0","id":42,"method":"ping"}`)
	assert.JSONEq(t, `42`, string(resp.ID))
}

func TestRun_ReturnsNilOnCancelAndEOF(t *testing.T) {
	for name, stop := range map[string]func(cancel context.CancelFunc, in *io.PipeWriter){
		"cancel": func(cancel context.CancelFunc, _ *io.PipeWriter) { cancel() },
		"eof":    func(_ context.CancelFunc, in *io.PipeWriter) { _ = in.Close() },
	} {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			inR, inW := io.Pipe()
			defer inW.Close()

			done := make(chan error, 1)
			go func() { done <- newEmptyServer().Run(ctx, inR, io.Discard) }()

			stop(cancel, inW)
			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("Run did not return")
			}
		})
	}
}
