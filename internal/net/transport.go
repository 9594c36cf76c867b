package net

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/melikestuff/CMPM121-D2/internal/engine"
	"github.com/melikestuff/CMPM121-D2/internal/export"
	"github.com/melikestuff/CMPM121-D2/internal/render"
)

const wsPath = "/ws"

// ErrSessionBusy is returned to a second client while one session is open.
var ErrSessionBusy = errors.New("a sketch session is already open")

// Options configures a Host.
type Options struct {
	ExportScale int
	Tool        engine.Tool // starting tool for each session
}

type session struct {
	id     string
	conn   *websocket.Conn
	frames bool
	tool   engine.Tool
}

// Host drives one Engine from a single websocket client. All engine calls
// happen under mu, so change notifications are written to the client in
// the order they happen.
type Host struct {
	engine   *engine.Engine
	opts     Options
	upgrader websocket.Upgrader

	mu      sync.Mutex
	session *session
}

// NewHost wraps e. The host subscribes to e for its whole lifetime.
func NewHost(e *engine.Engine, opts Options) *Host {
	if render.CheckExportScale(opts.ExportScale) != nil {
		opts.ExportScale = render.ExportScale
	}
	if opts.Tool.Validate() != nil {
		opts.Tool = engine.DefaultTool()
	}
	h := &Host{
		engine: e,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	e.Subscribe(h.onChange)
	return h
}

// Handler serves the websocket session plus the export and health routes.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(wsPath, h.serveWS)
	mux.HandleFunc("/export.png", h.serveExport(export.FormatPNG))
	mux.HandleFunc("/export.pdf", h.serveExport(export.FormatPDF))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe runs the host on addr until ctx is done.
func (h *Host) ListenAndServe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	srv := &http.Server{Addr: addr, Handler: h.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.mu.Lock()
		if h.session != nil {
			h.session.conn.Close()
		}
		h.mu.Unlock()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[HOST] shutdown: %v", err)
		}
	}()

	log.Printf("[HOST] listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

func (h *Host) busy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session != nil
}

func (h *Host) serveWS(w http.ResponseWriter, r *http.Request) {
	if h.busy() {
		http.Error(w, ErrSessionBusy.Error(), http.StatusConflict)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HOST] upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}

	s := &session{
		id:     uuid.NewString(),
		conn:   conn,
		frames: r.URL.Query().Get("frames") == "1",
		tool:   h.opts.Tool,
	}
	h.mu.Lock()
	if h.session != nil {
		h.mu.Unlock()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ErrSessionBusy.Error()))
		conn.Close()
		return
	}
	h.session = s
	width, height := h.engine.Size()
	hello := h.status(ReplyHello)
	hello.Session, hello.Width, hello.Height = s.id, width, height
	h.send(s, hello)
	h.mu.Unlock()
	log.Printf("[HOST] session %s opened from %s", s.id, r.RemoteAddr)

	defer h.closeSession(s)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[HOST] session %s read: %v", s.id, err)
			}
			return
		}
		h.dispatch(s, data)
	}
}

func (h *Host) dispatch(s *session, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(s, fmt.Errorf("bad message: %w", err))
		return
	}
	h.handle(s, msg)
}

// closeSession detaches s and ends any press it left open.
func (h *Host) closeSession(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == s {
		h.session = nil
		if h.engine.Drawing() {
			h.engine.Leave()
		}
	}
	s.conn.Close()
	log.Printf("[HOST] session %s closed", s.id)
}

// handle runs with h.mu held.
func (h *Host) handle(s *session, msg Message) {
	switch msg.Type {
	case MsgTool:
		if msg.Tool == nil {
			h.sendError(s, errors.New("tool message without a tool"))
			return
		}
		h.useTool(s, msg.Tool)
	case MsgPress:
		if h.useTool(s, msg.Tool) {
			h.engine.Press(msg.X, msg.Y, s.tool)
		}
	case MsgMove:
		if h.useTool(s, msg.Tool) {
			h.engine.MoveTo(msg.X, msg.Y, s.tool)
		}
	case MsgRelease:
		h.engine.Release()
	case MsgLeave:
		h.engine.Leave()
	case MsgUndo:
		h.engine.Undo()
	case MsgRedo:
		h.engine.Redo()
	case MsgClear:
		h.engine.Clear()
	case MsgExport:
		h.exportTo(s, msg)
	default:
		h.sendError(s, fmt.Errorf("unknown message type %q", msg.Type))
	}
}

// useTool applies a tool override to the session. It reports false, after
// telling the client why, if the override is invalid.
func (h *Host) useTool(s *session, tm *ToolMessage) bool {
	if tm == nil {
		return true
	}
	tool, err := tm.apply(s.tool)
	if err != nil {
		h.sendError(s, err)
		return false
	}
	s.tool = tool
	return true
}

func (h *Host) exportTo(s *session, msg Message) {
	format, err := export.ParseFormat(msg.Format)
	if err != nil {
		h.sendError(s, err)
		return
	}
	scale := msg.Scale
	if scale == 0 {
		scale = h.opts.ExportScale
	}
	if err := render.CheckExportScale(scale); err != nil {
		h.sendError(s, err)
		return
	}
	data, err := h.encode(format, scale)
	if err != nil {
		h.sendError(s, err)
		return
	}
	reply := h.status(ReplyExport)
	reply.Format = string(format)
	reply.Data = base64.StdEncoding.EncodeToString(data)
	h.send(s, reply)
}

// encodeLocked takes h.mu around encode.
func (h *Host) encodeLocked(format export.Format, scale int) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encode(format, scale)
}

// encode renders the committed content at scale. It runs with h.mu held.
func (h *Host) encode(format export.Format, scale int) ([]byte, error) {
	img, err := h.engine.RenderAt(scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *Host) serveExport(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scale := h.opts.ExportScale
		if v := r.URL.Query().Get("scale"); v != "" {
			n, err := strconv.Atoi(v)
			if err == nil {
				err = render.CheckExportScale(n)
			}
			if err != nil {
				http.Error(w, fmt.Sprintf("bad scale %q: %v", v, err), http.StatusBadRequest)
				return
			}
			scale = n
		}

		data, err := h.encodeLocked(format, scale)
		if err != nil {
			log.Printf("[EXPORT] %s: %v", format, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.FileName(format, time.Now())))
		w.Write(data)
	}
}

// onChange forwards engine notifications to the open session. Engine calls
// only happen under h.mu, so this runs with the lock held.
func (h *Host) onChange(c engine.Change) {
	s := h.session
	if s == nil {
		return
	}
	h.send(s, h.status(c.String()))
	if s.frames {
		h.sendFrame(s, h.engine.Frame())
	}
}

func (h *Host) sendFrame(s *session, img image.Image) {
	var buf bytes.Buffer
	if err := export.PNG(&buf, img); err != nil {
		log.Printf("[HOST] encoding frame: %v", err)
		return
	}
	reply := h.status(ReplyFrame)
	reply.PNG = base64.StdEncoding.EncodeToString(buf.Bytes())
	h.send(s, reply)
}

func (h *Host) status(kind string) Reply {
	hist := h.engine.History()
	r := Reply{
		Type:      kind,
		Committed: hist.Len(),
		Undone:    hist.UndoneLen(),
		Revision:  hist.Revision(),
	}
	if last := hist.Last(); last != nil {
		r.ID = last.CommandID()
	}
	return r
}

func (h *Host) sendError(s *session, err error) {
	log.Printf("[HOST] session %s: %v", s.id, err)
	h.send(s, Reply{Type: ReplyError, Error: err.Error()})
}

func (h *Host) send(s *session, r Reply) {
	s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := s.conn.WriteJSON(r); err != nil {
		log.Printf("[HOST] session %s write: %v", s.id, err)
	}
}
