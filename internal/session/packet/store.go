package packet

import (
	"fmt"
	"time"
)

// Store holds every turn packet plus five indices: by ID, act, module,
// player, and highlight tag. Every mutating operation returns a new Store
// value with the flat list and all applicable indices updated in the same
// step; no index is ever touched on its own. A packet's act, module, and
// player never change after creation, so updates only maintain the tag
// index.
type Store struct {
	Packets []TurnPacket

	ByID     map[string]int // packet id -> position in Packets
	ByAct    map[int][]string
	ByModule map[string][]string
	ByPlayer map[string][]string
	ByTag    map[string][]string
}

// NewStore creates an empty turn packet store.
func NewStore() Store {
	return Store{
		ByID:     make(map[string]int),
		ByAct:    make(map[int][]string),
		ByModule: make(map[string][]string),
		ByPlayer: make(map[string][]string),
		ByTag:    make(map[string][]string),
	}
}

func (s Store) clone() Store {
	out := Store{
		Packets:  make([]TurnPacket, len(s.Packets)),
		ByID:     make(map[string]int, len(s.ByID)),
		ByAct:    make(map[int][]string, len(s.ByAct)),
		ByModule: make(map[string][]string, len(s.ByModule)),
		ByPlayer: make(map[string][]string, len(s.ByPlayer)),
		ByTag:    make(map[string][]string, len(s.ByTag)),
	}
	for i, p := range s.Packets {
		out.Packets[i] = p.clone()
	}
	for k, v := range s.ByID {
		out.ByID[k] = v
	}
	for k, ids := range s.ByAct {
		out.ByAct[k] = append([]string(nil), ids...)
	}
	for k, ids := range s.ByModule {
		out.ByModule[k] = append([]string(nil), ids...)
	}
	for k, ids := range s.ByPlayer {
		out.ByPlayer[k] = append([]string(nil), ids...)
	}
	for k, ids := range s.ByTag {
		out.ByTag[k] = append([]string(nil), ids...)
	}
	return out
}

// Add inserts a packet and registers it in every index in one step.
func (s Store) Add(p TurnPacket) Store {
	out := s.clone()
	out.Packets = append(out.Packets, p.clone())
	pos := len(out.Packets) - 1
	out.ByID[p.ID] = pos
	out.ByAct[p.Act] = append(out.ByAct[p.Act], p.ID)
	out.ByModule[p.ModuleID] = append(out.ByModule[p.ModuleID], p.ID)
	out.ByPlayer[p.PlayerID] = append(out.ByPlayer[p.PlayerID], p.ID)
	for _, tag := range p.HighlightTags {
		out.ByTag[tag] = append(out.ByTag[tag], p.ID)
	}
	return out
}

// Get returns the packet with the given ID.
func (s Store) Get(packetID string) (TurnPacket, error) {
	pos, ok := s.ByID[packetID]
	if !ok {
		return TurnPacket{}, fmt.Errorf("%w: %s", ErrNotFound, packetID)
	}
	return s.Packets[pos].clone(), nil
}

// update replaces a packet in place within a cloned store. The positional
// indices are left untouched because act/module/player are immutable after
// creation; only the tag index can gain entries.
func (s Store) update(packetID string, mutate func(*TurnPacket) error) (Store, error) {
	pos, ok := s.ByID[packetID]
	if !ok {
		return Store{}, fmt.Errorf("%w: %s", ErrNotFound, packetID)
	}
	out := s.clone()
	if err := mutate(&out.Packets[pos]); err != nil {
		return Store{}, err
	}
	return out, nil
}

// AddSubmission records a player answer on a packet.
func (s Store) AddSubmission(packetID string, sub Submission) (Store, error) {
	return s.update(packetID, func(p *TurnPacket) error {
		if sub.SubmittedAt.IsZero() {
			sub.SubmittedAt = time.Now().UTC()
		}
		p.Submissions = append(p.Submissions, sub)
		return nil
	})
}

// AddScoring attaches the judged outcome to a packet. A packet can be
// scored at most once.
func (s Store) AddScoring(packetID string, scoring Scoring) (Store, error) {
	return s.update(packetID, func(p *TurnPacket) error {
		if p.Scoring != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyScored, packetID)
		}
		if scoring.ScoredAt.IsZero() {
			scoring.ScoredAt = time.Now().UTC()
		}
		p.Scoring = &scoring
		return nil
	})
}

// SetReveal records when and how the turn's outcome was shown.
func (s Store) SetReveal(packetID string, reveal Reveal) (Store, error) {
	return s.update(packetID, func(p *TurnPacket) error {
		p.Reveal = &reveal
		return nil
	})
}

// AddHighlightTags tags a packet as a finale highlight candidate, keeping
// the tag index in step. Tags already present are not duplicated.
func (s Store) AddHighlightTags(packetID string, tags ...string) (Store, error) {
	pos, ok := s.ByID[packetID]
	if !ok {
		return Store{}, fmt.Errorf("%w: %s", ErrNotFound, packetID)
	}
	out := s.clone()
	p := &out.Packets[pos]
	existing := make(map[string]bool, len(p.HighlightTags))
	for _, tag := range p.HighlightTags {
		existing[tag] = true
	}
	for _, tag := range tags {
		if tag == "" || existing[tag] {
			continue
		}
		existing[tag] = true
		p.HighlightTags = append(p.HighlightTags, tag)
		out.ByTag[tag] = append(out.ByTag[tag], p.ID)
	}
	return out, nil
}

// PacketsForAct returns the packets created during an act, in insertion order.
func (s Store) PacketsForAct(act int) []TurnPacket {
	return s.packetsByIDs(s.ByAct[act])
}

// PacketsForModule returns the packets produced by a module.
func (s Store) PacketsForModule(moduleID string) []TurnPacket {
	return s.packetsByIDs(s.ByModule[moduleID])
}

// PacketsForPlayer returns the packets where a player was the actor.
func (s Store) PacketsForPlayer(playerID string) []TurnPacket {
	return s.packetsByIDs(s.ByPlayer[playerID])
}

// PacketsForTag returns the packets carrying a highlight tag.
func (s Store) PacketsForTag(tag string) []TurnPacket {
	return s.packetsByIDs(s.ByTag[tag])
}

// Recent returns the most recent n packets, oldest first.
func (s Store) Recent(n int) []TurnPacket {
	if n <= 0 || len(s.Packets) == 0 {
		return nil
	}
	start := len(s.Packets) - n
	if start < 0 {
		start = 0
	}
	out := make([]TurnPacket, 0, len(s.Packets)-start)
	for _, p := range s.Packets[start:] {
		out = append(out, p.clone())
	}
	return out
}

// Scored returns packets that carry a scoring record.
func (s Store) Scored() []TurnPacket {
	var out []TurnPacket
	for _, p := range s.Packets {
		if p.Scoring != nil {
			out = append(out, p.clone())
		}
	}
	return out
}

// Unscored returns packets without a scoring record.
func (s Store) Unscored() []TurnPacket {
	var out []TurnPacket
	for _, p := range s.Packets {
		if p.Scoring == nil {
			out = append(out, p.clone())
		}
	}
	return out
}

// Len returns the number of stored packets.
func (s Store) Len() int {
	return len(s.Packets)
}

func (s Store) packetsByIDs(ids []string) []TurnPacket {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TurnPacket, 0, len(ids))
	for _, packetID := range ids {
		if pos, ok := s.ByID[packetID]; ok {
			out = append(out, s.Packets[pos].clone())
		}
	}
	return out
}
