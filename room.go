package main

import (
	"math/rand"
	"sort"
	"sync"
)

// Sender delivers one message to one client without blocking.
type Sender interface {
	SendTo(clientID string, message []byte) error
}

type RoomOptions struct {
	// MinPlayers is the smallest room in which the ready threshold can fire.
	MinPlayers int
	// Intn picks the master. Defaults to math/rand.
	Intn func(n int) int
	// OnClose is called once, outside the room lock, after Terminate.
	OnClose func(roomID int)
}

type Snapshot struct {
	RoomID    int      `json:"roomId"`
	Phase     Phase    `json:"phase"`
	Players   []string `json:"players"`
	Master    string   `json:"master,omitempty"`
	Readied   int      `json:"readied"`
	GameEnded int      `json:"gameEnded"`
	Voted     int      `json:"voted"`
}

type set map[string]struct{}

func (s set) add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s set) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s set) sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Room is one multi-phase session. Every transition, including the
// broadcast it causes, runs under lock.
type Room struct {
	id         int
	sender     Sender
	minPlayers int
	intn       func(n int) int
	onClose    func(roomID int)
	logger     RoomLogger

	lock      sync.Mutex
	closed    chan struct{}
	phase     Phase
	players   set
	master    string
	readied   set
	gameEnded set
	voters    set
	voted     []string
}

func NewRoom(id int, sender Sender, opts RoomOptions) *Room {
	if opts.Intn == nil {
		opts.Intn = rand.Intn
	}
	if opts.MinPlayers < 1 {
		opts.MinPlayers = 1
	}
	r := &Room{
		id:         id,
		sender:     sender,
		minPlayers: opts.MinPlayers,
		intn:       opts.Intn,
		onClose:    opts.OnClose,
		logger:     GetRoomLogger(id),
		closed:     make(chan struct{}),
		phase:      PhaseLobby,
		players:    make(set),
	}
	r.resetRound()
	return r
}

func (r *Room) ID() int {
	return r.id
}

// Done is closed once the room is terminated, after game-interrupted has
// been queued for every member.
func (r *Room) Done() <-chan struct{} {
	return r.closed
}

func (r *Room) Phase() Phase {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.phase
}

func (r *Room) Master() (string, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.master, r.master != ""
}

func (r *Room) HasPlayer(clientID string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.players.has(clientID)
}

func (r *Room) Snapshot() Snapshot {
	r.lock.Lock()
	defer r.lock.Unlock()
	return Snapshot{
		RoomID:    r.id,
		Phase:     r.phase,
		Players:   r.players.sorted(),
		Master:    r.master,
		Readied:   len(r.readied),
		GameEnded: len(r.gameEnded),
		Voted:     len(r.voted),
	}
}

// Join adds clientID to the room and tells every member the new player
// count. Joining twice with the same id is harmless.
func (r *Room) Join(clientID string) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.phase == PhaseTerminated {
		return 0, newRoomClosedError(r.id)
	}
	r.players.add(clientID)
	count := len(r.players)
	r.broadcast(UserJoinEvent(count))
	return count, nil
}

func (r *Room) Init(clientID, name string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.acceptsFrom(clientID) {
		return
	}
	r.broadcast(UserInitEvent(clientID, name))
}

// Ready records clientID as ready and starts the game once every current
// player is ready. It reports whether this call started the game. A ready
// after a resolved round opens a new round.
func (r *Room) Ready(clientID string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.acceptsFrom(clientID) {
		return false
	}
	if r.phase == PhaseResolved {
		r.resetRound()
		r.setPhase(PhaseLobby)
		r.logger.NewRound()
	}
	if r.phase != PhaseLobby {
		r.logger.IgnoredSignal("ready", clientID, r.phase)
		return false
	}
	r.readied.add(clientID)
	if !r.thresholdReached(r.readied) {
		return false
	}
	players := r.players.sorted()
	r.master = players[r.intn(len(players))]
	r.setPhase(PhasePlaying)
	r.logger.GameStarted(r.master, len(players))
	r.broadcast(GameStartEvent(r.master))
	return true
}

// GameEnd records that clientID finished the round and opens voting once
// every current player has.
func (r *Room) GameEnd(clientID string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.acceptsFrom(clientID) {
		return false
	}
	if r.phase != PhasePlaying && r.phase != PhaseEnding {
		r.logger.IgnoredSignal("game-end", clientID, r.phase)
		return false
	}
	r.gameEnded.add(clientID)
	if !r.thresholdReached(r.gameEnded) {
		r.setPhase(PhaseEnding)
		return false
	}
	r.setPhase(PhaseVoting)
	r.logger.VoteStarted()
	r.broadcast(VoteStartEvent())
	return true
}

// Vote records one choice per voter. Once every current player has voted
// the winner is broadcast and returned.
func (r *Room) Vote(clientID, choice string) (string, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.acceptsFrom(clientID) {
		return "", false
	}
	if r.phase != PhaseVoting {
		r.logger.IgnoredSignal("vote", clientID, r.phase)
		return "", false
	}
	if !r.voters.add(clientID) {
		r.logger.IgnoredSignal("repeated vote", clientID, r.phase)
		return "", false
	}
	r.voted = append(r.voted, choice)
	if !r.thresholdReached(r.voters) {
		return "", false
	}
	winner := Tally(r.voted)
	r.setPhase(PhaseResolved)
	r.logger.Resolved(winner, len(r.voted))
	r.broadcast(ResultEvent(winner))
	return winner, true
}

// Chat forwards text verbatim to every member.
func (r *Room) Chat(clientID, text string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.acceptsFrom(clientID) {
		return
	}
	r.broadcast([]byte(text))
}

// Terminate ends the room for everyone because departing lost its
// connection. Every member gets game-interrupted, since the departing id
// may already belong to a newer connection. The room is then handed to
// OnClose for eviction. Only the first call has any effect.
func (r *Room) Terminate(departing string) bool {
	r.lock.Lock()
	if r.phase == PhaseTerminated {
		r.lock.Unlock()
		return false
	}
	r.setPhase(PhaseTerminated)
	r.logger.Interrupted(departing)
	r.broadcast(InterruptedEvent())
	close(r.closed)
	r.lock.Unlock()

	if r.onClose != nil {
		r.onClose(r.id)
	}
	return true
}

func (r *Room) acceptsFrom(clientID string) bool {
	if r.phase == PhaseTerminated {
		return false
	}
	if !r.players.has(clientID) {
		r.logger.IgnoredSignal("non-member", clientID, r.phase)
		return false
	}
	return true
}

func (r *Room) thresholdReached(signaled set) bool {
	return len(r.players) >= r.minPlayers && len(signaled) == len(r.players)
}

func (r *Room) setPhase(next Phase) {
	if next == r.phase {
		return
	}
	if !r.phase.CanTransitionTo(next) {
		panic("room: illegal phase transition " + r.phase.String() + " -> " + next.String())
	}
	r.phase = next
}

func (r *Room) resetRound() {
	r.master = ""
	r.readied = make(set)
	r.gameEnded = make(set)
	r.voters = make(set)
	r.voted = nil
}

func (r *Room) broadcast(message []byte) int {
	delivered := 0
	for player := range r.players {
		if err := r.sender.SendTo(player, message); err != nil {
			r.logger.DeliveryFailed(err)
			continue
		}
		delivered++
	}
	return delivered
}

// Tally returns the most frequent choice. Ties go to the choice that was
// submitted first.
func Tally(voted []string) string {
	counts := make(map[string]int, len(voted))
	best := 0
	for _, choice := range voted {
		counts[choice]++
		if counts[choice] > best {
			best = counts[choice]
		}
	}
	for _, choice := range voted {
		if counts[choice] == best {
			return choice
		}
	}
	return ""
}
