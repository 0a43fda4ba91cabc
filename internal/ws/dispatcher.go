package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/services/catalog"
	"github.com/christophe-asselin/7-differences/internal/services/duogame"
	"github.com/christophe-asselin/7-differences/internal/services/ongoing"
	"github.com/christophe-asselin/7-differences/internal/services/user"
)

// handlerTimeout bounds the storage work done by one inbound event
const handlerTimeout = 5 * time.Second

// Dispatcher translates inbound socket events into service calls and
// broadcasts the resulting state to the affected rooms.
type Dispatcher struct {
	hub     *Hub
	duo     *duogame.Service
	catalog *catalog.Service
	users   *user.Service
	ongoing *ongoing.Service
	logger  *slog.Logger
}

// Ensure Dispatcher drives client connections
var _ MessageHandler = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher over the given services
func NewDispatcher(
	hub *Hub,
	duo *duogame.Service,
	catalog *catalog.Service,
	users *user.Service,
	ongoing *ongoing.Service,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		hub:     hub,
		duo:     duo,
		catalog: catalog,
		users:   users,
		ongoing: ongoing,
		logger:  logger.With(slog.String("component", "dispatcher")),
	}
}

// HandleMessage routes one inbound envelope to its event handler
func (d *Dispatcher) HandleMessage(client *Client, data []byte) {
	var envelope model.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		d.logger.Warn("malformed envelope",
			slog.String("socket_id", client.ID),
			slog.String("error", err.Error()))
		return
	}

	switch envelope.Event {
	case model.EventNewUser:
		d.onNewUser(client, envelope.Payload)
	case model.EventNewMessage:
		d.onNewMessage(client, envelope.Payload)
	case model.EventCreateDuoGame:
		d.onCreateDuoGame(client, envelope.Payload)
	case model.EventJoinDuoGame:
		d.onJoinDuoGame(client, envelope.Payload)
	case model.EventLeaveDuoGame:
		d.onLeaveDuoGame(client, envelope.Payload)
	case model.EventSimpleDifferenceFound:
		d.onSimpleDifferenceFound(client, envelope.Payload)
	case model.EventFreeDifferenceFound:
		d.onFreeDifferenceFound(client, envelope.Payload)
	case model.EventNewScore:
		d.onNewScore(client, envelope.Payload)
	case model.EventRemoveGame:
		d.onRemoveGame(client, envelope.Payload)
	case model.EventNewOnGoingGame:
		d.onNewOnGoingGame(client, envelope.Payload)
	case model.EventRemoveOnGoingGame:
		d.onRemoveOnGoingGame(client, envelope.Payload)
	default:
		d.logger.Warn("unknown event",
			slog.String("event", string(envelope.Event)),
			slog.String("socket_id", client.ID))
	}
}

// HandleDisconnect cleans up after a socket that went away without a clean
// leave: the username is released after a grace period and any live duo
// session is treated as abandoned.
func (d *Dispatcher) HandleDisconnect(client *Client) {
	if client.Username == "" {
		return
	}

	d.users.ScheduleRemoval(client.Username, client.ID)

	if session, err := d.duo.FindByUsername(client.Username); err == nil {
		d.removeFromSession(client, session.GameID, session.Type, client.Username)
	}

	d.hub.Broadcast(model.EventNewMessage, model.GameMessage{
		Username: client.Username,
		Event:    model.GameEventDisconnect,
	})
}

func (d *Dispatcher) onNewUser(client *Client, payload json.RawMessage) {
	var req model.NewUserRequest
	if !d.decode(client, payload, &req) {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	// A returning user within the disconnect grace period still holds the
	// name; rebinding the socket is enough.
	if _, err := d.users.Add(ctx, req.Username); err != nil && !errors.Is(err, model.ErrUsernameTaken) {
		d.warn(client, "failed to register user", err)
		return
	}
	if _, err := d.users.BindSocket(ctx, req.Username, client.ID); err != nil {
		d.warn(client, "failed to bind socket", err)
		return
	}

	client.Username = req.Username
	d.hub.Broadcast(model.EventNewMessage, model.GameMessage{
		Username: req.Username,
		Event:    model.GameEventConnect,
	})
}

func (d *Dispatcher) onNewMessage(client *Client, payload json.RawMessage) {
	var req model.ChatMessageRequest
	if !d.decode(client, payload, &req) {
		return
	}

	// Chat within a match stays in its room; lobby chat goes to everyone
	if req.GameID != "" {
		d.hub.EmitToRoom(model.RoomName(req.GameID, req.DuoID), model.EventNewMessage, req.Message)
		return
	}
	d.hub.Broadcast(model.EventNewMessage, req.Message)
}

func (d *Dispatcher) onCreateDuoGame(client *Client, payload json.RawMessage) {
	var req model.DuoGameRequest
	if !d.decode(client, payload, &req) {
		return
	}

	// Seed the shared healed image from the game record so the first find
	// starts from the pristine modified picture.
	modifiedURL := ""
	if req.Type == model.GameTypeSimple {
		ctx, cancel := handlerContext()
		defer cancel()
		if game, err := d.catalog.GetSimpleGame(ctx, req.GameID); err == nil {
			modifiedURL = game.ModifiedImageURL
		}
	}

	session := d.duo.Create(req.GameID, req.Type, req.User, modifiedURL)
	d.hub.JoinRoom(client, session.Room())
	d.broadcastState(req.GameID, req.Type, model.TitleWaiting)
}

func (d *Dispatcher) onJoinDuoGame(client *Client, payload json.RawMessage) {
	var req model.DuoGameRequest
	if !d.decode(client, payload, &req) {
		return
	}

	session, err := d.duo.Join(req.GameID, req.Type, req.User)
	if err != nil {
		d.hub.EmitTo(client.ID, model.EventJoinDuoGame, model.Message{
			Title: model.TitleFail,
			Body:  err.Error(),
		})
		return
	}

	d.hub.JoinRoom(client, session.Room())
	d.hub.EmitToRoom(session.Room(), model.EventNewDuoPlayer, session)
	d.broadcastState(req.GameID, req.Type, model.TitleNotWaiting)
	d.ongoing.Add(req.GameID, req.Type)
}

func (d *Dispatcher) onLeaveDuoGame(client *Client, payload json.RawMessage) {
	var req model.DuoGameRequest
	if !d.decode(client, payload, &req) {
		return
	}
	d.removeFromSession(client, req.GameID, req.Type, req.User.Username)
}

// removeFromSession is the shared path for a clean leave and an abrupt
// disconnect.
func (d *Dispatcher) removeFromSession(client *Client, gameID model.GameID, gameType model.GameType, username string) {
	session, closed, err := d.duo.DeletePlayer(gameID, gameType, username)
	if err != nil {
		d.warn(client, "failed to remove player", err)
		return
	}

	d.broadcastState(gameID, gameType, model.TitleNotWaiting)
	d.hub.LeaveRoom(client, session.Room())
	d.hub.EmitToRoom(session.Room(), model.EventQuitDuoGame, session)
	if closed {
		d.ongoing.Remove(gameID, gameType)
	}
}

func (d *Dispatcher) onSimpleDifferenceFound(client *Client, payload json.RawMessage) {
	var req model.SimpleDifferenceFoundRequest
	if !d.decode(client, payload, &req) {
		return
	}

	session, err := d.duo.SimpleDifferenceFound(req.DuoID, req.Username, req.NewModifiedImageURL, req.IdentifiedDifferences)
	if err != nil {
		d.warn(client, "simple difference rejected", err)
		return
	}

	d.hub.EmitToRoom(session.Room(), model.EventSimpleDifferenceFound, session)
	d.checkEnd(session.ID, session.GameID, session.Type)
}

func (d *Dispatcher) onFreeDifferenceFound(client *Client, payload json.RawMessage) {
	var req model.FreeDifferenceFoundRequest
	if !d.decode(client, payload, &req) {
		return
	}

	session, err := d.duo.FreeDifferenceFound(req.DuoID, req.Username, req.Object3DIndex)
	if err != nil {
		d.warn(client, "free difference rejected", err)
		return
	}

	d.hub.EmitToRoom(session.Room(), model.EventFreeDifferenceFound, session)
	d.checkEnd(session.ID, session.GameID, session.Type)
}

// checkEnd runs the win check after every found difference. A win notifies
// each player individually; the session is already gone by then, so room
// broadcasts for it stop here.
func (d *Dispatcher) checkEnd(duoID int, gameID model.GameID, gameType model.GameType) {
	result := d.duo.CheckEnd(duoID)
	if len(result) == 0 {
		return
	}

	d.hub.EmitTo(result[0].User.SocketID, model.EventEndDuoGame, model.Message{
		Title: model.TitleWinner,
		Body:  string(gameID),
	})
	for _, loser := range result[1:] {
		d.hub.EmitTo(loser.User.SocketID, model.EventEndDuoGame, model.Message{
			Title: model.TitleLoser,
			Body:  string(gameID),
		})
	}
	d.ongoing.Remove(gameID, gameType)
}

func (d *Dispatcher) onNewScore(client *Client, payload json.RawMessage) {
	var req model.NewScoreRequest
	if !d.decode(client, payload, &req) {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	position, err := d.catalog.UpdateScore(ctx, req.GameID, req.Type, req.Players, model.Score{
		Time: req.Time,
		Name: req.Username,
	})
	if err != nil {
		d.warn(client, "failed to update score", err)
		return
	}
	if position < 0 {
		return
	}

	d.hub.Broadcast(model.EventNewMessage, model.GameMessage{
		Username: req.Username,
		Event:    model.GameEventBestScore,
		GameName: d.gameName(ctx, req.GameID, req.Type),
		Players:  req.Players,
		Position: fmt.Sprintf("%d", position),
	})
}

func (d *Dispatcher) onRemoveGame(client *Client, payload json.RawMessage) {
	var req model.RemoveGameRequest
	if !d.decode(client, payload, &req) {
		return
	}

	// Every live match on this game learns first, then the lobby
	for _, room := range d.duo.FindRooms(req.GameID) {
		d.hub.EmitToRoom(room, model.EventRemoveGame, req)
	}

	ctx, cancel := handlerContext()
	defer cancel()
	if err := d.catalog.Remove(ctx, req.GameID, req.Type); err != nil {
		d.warn(client, "failed to remove game", err)
	}

	d.hub.Broadcast(model.EventRemoveGame, req)
}

func (d *Dispatcher) onNewOnGoingGame(client *Client, payload json.RawMessage) {
	var req model.RemoveGameRequest
	if !d.decode(client, payload, &req) {
		return
	}
	d.ongoing.Add(req.GameID, req.Type)
	d.hub.Broadcast(model.EventNewOnGoingGame, req)
}

func (d *Dispatcher) onRemoveOnGoingGame(client *Client, payload json.RawMessage) {
	var req model.RemoveGameRequest
	if !d.decode(client, payload, &req) {
		return
	}
	d.ongoing.Remove(req.GameID, req.Type)
	d.hub.Broadcast(model.EventRemoveOnGoingGame, req)
}

// broadcastState tells every client whether the game is joinable
func (d *Dispatcher) broadcastState(gameID model.GameID, gameType model.GameType, title model.Title) {
	event := model.EventUpdateSimpleGameState
	if gameType == model.GameTypeFree {
		event = model.EventUpdateFreeGameState
	}
	d.hub.Broadcast(event, model.Message{Title: title, Body: string(gameID)})
}

// gameName resolves a game's display name, best effort
func (d *Dispatcher) gameName(ctx context.Context, gameID model.GameID, gameType model.GameType) string {
	if gameType == model.GameTypeFree {
		if game, err := d.catalog.GetFreeGame(ctx, gameID); err == nil {
			return game.Name
		}
		return ""
	}
	if game, err := d.catalog.GetSimpleGame(ctx, gameID); err == nil {
		return game.Name
	}
	return ""
}

// decode unmarshals an event payload, logging and dropping malformed ones
func (d *Dispatcher) decode(client *Client, payload json.RawMessage, v any) bool {
	if err := json.Unmarshal(payload, v); err != nil {
		d.logger.Warn("malformed payload",
			slog.String("socket_id", client.ID),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

func (d *Dispatcher) warn(client *Client, msg string, err error) {
	d.logger.Warn(msg,
		slog.String("socket_id", client.ID),
		slog.String("error", err.Error()))
}

func handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}
