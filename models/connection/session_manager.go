package connection

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/saeidalz13/battleship-computer/internal"
	cerr "github.com/saeidalz13/battleship-computer/internal/error"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically()

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	Count() int
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

type Option func(*BattleshipSessionManager)

// Sessions idle for longer than the interval are evicted on every
// cleanup round.
func WithCleanupInterval(interval time.Duration) Option {
	return func(bsm *BattleshipSessionManager) {
		bsm.cleanupInterval = interval
	}
}

// How long an abnormally closed session waits for its client to
// reconnect.
func WithGracePeriod(period time.Duration) Option {
	return func(bsm *BattleshipSessionManager) {
		bsm.gracePeriod = period
	}
}

func NewBattleshipSessionManager(opts ...Option) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: time.Minute * 20,
		gracePeriod:     gracePeriod,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	session := NewSession(internal.NewSessionId(), conn)

	bsm.mu.Lock()
	bsm.sessions[session.id] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
}

// Hands the new connection to a session whose old one closed
// abnormally. The session loop picks it up where it waited.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}

	session.reconnectionAfterAbnormalClosure(conn)
	log.Info("session reconnected", "session", sessionId, "remote", conn.RemoteAddr().String())
	return nil
}

func (bsm *BattleshipSessionManager) Count() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// To ensure that there is no dangling connections,
// server session manager marks the sessions idle for
// more than the cleanup interval as stale and deletes them.
func (bsm *BattleshipSessionManager) CleanupPeriodically() {
	for {
		time.Sleep(bsm.cleanupInterval)
		bsm.cleanup()
	}
}

func (bsm *BattleshipSessionManager) cleanup() {
	assumedClosedConns := 10

	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	toDelete := make([]string, 0, assumedClosedConns)
	for ID, session := range bsm.sessions {
		if time.Since(session.LastActive()) > bsm.cleanupInterval {
			toDelete = append(toDelete, ID)
		}
	}

	for _, ID := range toDelete {
		delete(bsm.sessions, ID)
	}
	log.Debug("cleaned up sessions", "removed", len(toDelete), "remaining", len(bsm.sessions))
}

// This function takes care of abnormal closures happening
// to the client. This happens due to backgrounding in mobile
// clients or any other unexpected reasons for web apps.
// A nil error means the client came back on a new connection.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session) error {
	timer := time.NewTimer(bsm.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Info("session terminated after grace period", "session", s.id)
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-s.reconnectionSignal():
		log.Info("player reconnected", "session", s.id)
		return nil
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	for {
		err := session.writeToConnWithRetry(msg, msgType)
		if err == nil {
			session.touch()
			return nil
		}

		var connErr ConnErr
		if !errors.As(err, &connErr) {
			panic("this will never happen")
		}

		if connErr.Code() != ConnLoopAbnormalClosureRetry {
			return connErr
		}
		if err := bsm.HandleAbnormalClosureSession(session); err != nil {
			return err
		}
	}
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.Conn().ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.HandleAbnormalClosureSession(session); err != nil {
				return -1, []byte{}, err
			}
			retries = 0

		default:
			return -1, []byte{}, err
		}
	}
}

// FetchCodeFromMsg pulls the signal code out of a raw request.
// A request without a code is an error.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, errors.New("incoming req payload must contain 'code' field")
	}

	return *signal.Code, nil
}
