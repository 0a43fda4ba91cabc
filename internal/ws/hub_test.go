package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub(testutil.NopLogger())
	go s.hub.Run()
}

func (s *HubSuite) TearDownTest() {
	s.hub.Close()
}

func (s *HubSuite) connect() *Client {
	client := NewClient(s.hub, nil)
	before := s.hub.ClientCount()
	s.hub.Register(client)
	s.Require().Eventually(func() bool {
		return s.hub.ClientCount() == before+1
	}, time.Second, 5*time.Millisecond)
	return client
}

// receive waits for the next message queued to the client and decodes it
func (s *HubSuite) receive(client *Client) model.Envelope {
	select {
	case data := <-client.send:
		var envelope model.Envelope
		s.Require().NoError(json.Unmarshal(data, &envelope))
		return envelope
	case <-time.After(time.Second):
		s.Require().FailNow("timed out waiting for message")
		return model.Envelope{}
	}
}

func (s *HubSuite) TestRegisterAndUnregister() {
	client := s.connect()
	s.Equal(1, s.hub.ClientCount())
	s.Same(client, s.hub.Client(client.ID))

	s.hub.Unregister(client)
	s.Require().Eventually(func() bool {
		return s.hub.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)
	s.Nil(s.hub.Client(client.ID))
}

func (s *HubSuite) TestBroadcastReachesEveryClient() {
	first := s.connect()
	second := s.connect()

	s.hub.Broadcast(model.EventNewMessage, model.Message{Title: model.TitleSuccess, Body: "hi"})

	for _, client := range []*Client{first, second} {
		envelope := s.receive(client)
		s.Equal(model.EventNewMessage, envelope.Event)

		var msg model.Message
		s.Require().NoError(json.Unmarshal(envelope.Payload, &msg))
		s.Equal("hi", msg.Body)
	}
}

func (s *HubSuite) TestEmitToSingleClient() {
	target := s.connect()
	other := s.connect()

	s.True(s.hub.EmitTo(target.ID, model.EventEndDuoGame, model.Message{Title: model.TitleWinner}))

	envelope := s.receive(target)
	s.Equal(model.EventEndDuoGame, envelope.Event)
	s.Empty(other.send)
}

func (s *HubSuite) TestEmitToUnknownSocket() {
	s.False(s.hub.EmitTo("nope", model.EventEndDuoGame, nil))
}

// Emitting to a client while it disconnects must never hit a closed send
// channel, regardless of how the goroutines interleave.
func (s *HubSuite) TestEmitToRacingUnregister() {
	const rounds = 200

	for i := 0; i < rounds; i++ {
		client := s.connect()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 20; j++ {
				s.hub.EmitTo(client.ID, model.EventNewMessage, nil)
			}
		}()

		s.hub.Unregister(client)
		<-done

		s.Require().Eventually(func() bool {
			return s.hub.ClientCount() == 0
		}, time.Second, time.Millisecond)
	}
}

func (s *HubSuite) TestRoomScopedEmit() {
	member := s.connect()
	outsider := s.connect()

	room := model.RoomName("1", 0)
	s.hub.JoinRoom(member, room)
	s.Equal(1, s.hub.RoomSize(room))

	s.hub.EmitToRoom(room, model.EventNewDuoPlayer, nil)

	envelope := s.receive(member)
	s.Equal(model.EventNewDuoPlayer, envelope.Event)
	s.Empty(outsider.send)
}

func (s *HubSuite) TestLeaveRoomDropsEmptyRoom() {
	member := s.connect()
	room := model.RoomName("1", 0)

	s.hub.JoinRoom(member, room)
	s.hub.LeaveRoom(member, room)

	s.Equal(0, s.hub.RoomSize(room))
	s.hub.EmitToRoom(room, model.EventNewDuoPlayer, nil)
	s.Empty(member.send)
}

func (s *HubSuite) TestUnregisterClearsRoomMembership() {
	member := s.connect()
	room := model.RoomName("1", 0)
	s.hub.JoinRoom(member, room)

	s.hub.Unregister(member)
	s.Require().Eventually(func() bool {
		return s.hub.RoomSize(room) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}
