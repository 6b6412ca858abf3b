package nostr

import "time"

// KindTextNote is the NIP-01 short text note kind.
const KindTextNote uint16 = 1

// Tags are the event's tag arrays, e.g. [["e", "<id>"], ["p", "<pubkey>"]].
type Tags [][]string

// Find returns the first tag whose name is name.
func (t Tags) Find(name string) ([]string, bool) {
	for _, tag := range t {
		if len(tag) > 0 && tag[0] == name {
			return tag, true
		}
	}
	return nil, false
}

// Values returns the first value of every tag named name.
func (t Tags) Values(name string) []string {
	values := make([]string, 0)
	for _, tag := range t {
		if len(tag) > 1 && tag[0] == name {
			values = append(values, tag[1])
		}
	}
	return values
}

func (t Tags) clone() Tags {
	if t == nil {
		return nil
	}
	cloned := make(Tags, len(t))
	for index, tag := range t {
		cloned[index] = append([]string(nil), tag...)
	}
	return cloned
}

// Event is a signed NIP-01 event.
type Event struct {
	ID        EventID
	PubKey    PublicKey
	CreatedAt int64
	Kind      uint16
	Tags      Tags
	Content   string
	Sig       Signature
}

// UnsignedEvent is an event that has not yet been given an id and signature.
type UnsignedEvent struct {
	PubKey    PublicKey
	CreatedAt int64
	Kind      uint16
	Tags      Tags
	Content   string
}

// NewTextNote builds a kind 1 event authored by publicKey at createdAt.
// A zero createdAt uses the current time.
func NewTextNote(publicKey PublicKey, content string, tags Tags, createdAt int64) UnsignedEvent {
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	return UnsignedEvent{
		PubKey:    publicKey,
		CreatedAt: createdAt,
		Kind:      KindTextNote,
		Tags:      tags.clone(),
		Content:   content,
	}
}

// ID computes the id the event will have once signed.
func (u UnsignedEvent) ID() EventID {
	return ComputeEventID(u.PubKey, u.CreatedAt, u.Kind, u.Tags, u.Content)
}

// SignEvent computes the event id and signs it. The event author must be the
// signing key.
func (k Keys) SignEvent(unsigned UnsignedEvent) (Event, error) {
	if unsigned.PubKey.IsZero() {
		unsigned.PubKey = k.public
	}
	if !unsigned.PubKey.Equal(k.public) {
		return Event{}, ErrInvalidPublicKey
	}
	id := unsigned.ID()
	signature, err := k.Sign(id)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        id,
		PubKey:    unsigned.PubKey,
		CreatedAt: unsigned.CreatedAt,
		Kind:      unsigned.Kind,
		Tags:      unsigned.Tags.clone(),
		Content:   unsigned.Content,
		Sig:       signature,
	}, nil
}

// ComputeID recomputes the id from the event contents.
func (e Event) ComputeID() EventID {
	return ComputeEventID(e.PubKey, e.CreatedAt, e.Kind, e.Tags, e.Content)
}

// VerifyID reports ErrInvalidEventID when the stored id does not match the contents.
func (e Event) VerifyID() error {
	if e.PubKey.IsZero() {
		return ErrInvalidPublicKey
	}
	if e.ComputeID() != e.ID {
		return ErrInvalidEventID
	}
	return nil
}

// Verify checks the id and then the signature.
func (e Event) Verify() error {
	if err := e.VerifyID(); err != nil {
		return err
	}
	return VerifySignature(e.PubKey, e.ID, e.Sig[:])
}

// EventPointer references an event by id and author.
type EventPointer struct {
	ID     EventID
	PubKey PublicKey
}
