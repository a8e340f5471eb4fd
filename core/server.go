package elder

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
)

// Server exposes a Session over a unix socket. A single actor goroutine owns
// the session, so evaluation stays single-threaded no matter how many
// clients are connected.
type Server struct {
	session  *Session
	requests chan serverRequest
	listener net.Listener
	done     chan struct{}
	stopOnce sync.Once
}

type serverRequest struct {
	msg      map[string]any
	response chan map[string]any
}

// NewServer listens on sockPath, removing any stale socket file first.
func NewServer(session *Session, sockPath string) (*Server, error) {
	os.Remove(sockPath)
	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return &Server{
		session:  session,
		requests: make(chan serverRequest, 64),
		listener: listener,
		done:     make(chan struct{}),
	}, nil
}

// Addr returns the listening socket address.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Run starts the actor goroutine and accepts connections. Blocks until
// Shutdown.
func (s *Server) Run() {
	go s.actorLoop()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConnection(conn)
	}
}

// Shutdown stops accepting connections and stops the actor.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		s.listener.Close()
		close(s.done)
	})
}

func (s *Server) actorLoop() {
	for {
		select {
		case req := <-s.requests:
			req.response <- s.handleRequest(req.msg)
		case <-s.done:
			return
		}
	}
}

// Do sends msg to the actor and waits for its response.
func (s *Server) Do(msg map[string]any) map[string]any {
	id, _ := msg["id"].(string)
	select {
	case <-s.done:
		return errorResponse(id, "server shutting down")
	default:
	}
	resp := make(chan map[string]any, 1)
	select {
	case s.requests <- serverRequest{msg: msg, response: resp}:
	case <-s.done:
		return errorResponse(id, "server shutting down")
	}
	select {
	case r := <-resp:
		return r
	case <-s.done:
		return errorResponse(id, "server shutting down")
	}
}

func (s *Server) handleRequest(msg map[string]any) map[string]any {
	id, _ := msg["id"].(string)

	op, _ := msg["op"].(string)
	switch op {
	case "":
		return manual(id)
	case "eval":
		return s.handleEval(id, msg)
	case "bindings":
		return s.handleBindings(id)
	case "traces":
		return s.handleTraces(id, msg)
	case "reset":
		return s.handleReset(id)
	default:
		return errorResponse(id, fmt.Sprintf("unknown op: %s", op))
	}
}

func manual(id string) map[string]any {
	return map[string]any{
		"id": id,
		"ok": true,
		"value": map[string]any{
			"name": "elder",
			"ops": map[string]any{
				"eval":     "Evaluate top-level forms. Params: expr (string)",
				"bindings": "List global bindings.",
				"traces":   "Recent evaluation traces. Params: n (number, optional)",
				"reset":    "Clear the form log and traces, reload the prelude.",
			},
		},
	}
}

func (s *Server) handleEval(id string, msg map[string]any) map[string]any {
	expr, ok := msg["expr"].(string)
	if !ok {
		return errorResponse(id, "eval: missing 'expr' string")
	}
	val, err := s.session.Eval(expr)
	if err != nil {
		resp := errorResponse(id, err.Error())
		if k := KindOf(err); k != 0 {
			resp["kind"] = k.String()
		}
		return resp
	}
	resp := map[string]any{"id": id, "ok": true, "value": Repr(val)}
	if data, err := ValueToGo(val); err == nil {
		resp["data"] = data
	}
	return resp
}

func (s *Server) handleBindings(id string) map[string]any {
	bindings := s.session.Bindings()
	out := make(map[string]any, len(bindings))
	for _, b := range bindings {
		out[b.Name] = Repr(b.Value)
	}
	return map[string]any{"id": id, "ok": true, "value": out}
}

func (s *Server) handleTraces(id string, msg map[string]any) map[string]any {
	n := 0
	if f, ok := msg["n"].(float64); ok {
		n = int(f)
	}
	traces := s.session.Traces(n)
	out := make([]any, len(traces))
	for i := range traces {
		out[i] = traces[i].ToMap()
	}
	return map[string]any{"id": id, "ok": true, "value": out}
}

func (s *Server) handleReset(id string) map[string]any {
	if err := s.session.Reset(); err != nil {
		return errorResponse(id, err.Error())
	}
	return map[string]any{"id": id, "ok": true, "value": "reset"}
}

func errorResponse(id, errMsg string) map[string]any {
	return map[string]any{"id": id, "ok": false, "error": errMsg}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	for {
		msg, err := ReadMsg(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("read client message: %v", err)
			}
			return
		}

		resp := s.Do(msg)
		if err := WriteMsg(conn, resp); err != nil {
			log.Printf("write client response: %v", err)
			return
		}
	}
}
