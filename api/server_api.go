package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-computer/db/sqlc"
	"github.com/saeidalz13/battleship-computer/internal/config"
	mc "github.com/saeidalz13/battleship-computer/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"

	RouteBattleship = "/battleship"
	RouteHealth     = "/health"
	RouteStats      = "/stats"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// probably more that enough but this is a good average size
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type Option func(*RequestProcessor) error

// Prod hides error details from the clients.
func WithStage(stage string) Option {
	return func(rp *RequestProcessor) error {
		if !config.IsStageValid(stage) {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		rp.stage = stage
		return nil
	}
}

// Without a querier no analytics are recorded.
func WithQuerier(q sqlc.Querier) Option {
	return func(rp *RequestProcessor) error {
		if q == nil {
			return fmt.Errorf("querier cannot be nil")
		}
		rp.analytics = sqlc.NewDbManager(q).Analytics
		return nil
	}
}

// Overrides the address analytics rows are keyed by.
func WithServerIpNet(ipnet net.IPNet) Option {
	return func(rp *RequestProcessor) error {
		rp.ipnet = ipnet
		return nil
	}
}

// NewServeMux routes the websocket endpoint, the health check and
// the computer match stats.
func NewServeMux(rp *RequestProcessor) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET "+RouteBattleship, rp)
	mux.HandleFunc("GET "+RouteHealth, HandleHealth)
	mux.HandleFunc("GET "+RouteStats, rp.HandleStats)
	return mux
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Details of errors are for developers only.
func scrubError[T any](stage string, msg *mc.Message[T]) {
	if stage == config.StageProd && msg.Error != nil {
		msg.Error.ErrorDetails = ""
	}
}
