package nostr

import (
	stdsha256 "crypto/sha256"
	"testing"
)

func signedNote(t *testing.T) Event {
	t.Helper()
	keys := testKeys(t)
	unsigned := NewTextNote(keys.PublicKey(), "hello nostr", Tags{{"t", "ckb"}, {"p", testPubKeyHex}}, 1700000000)
	event, err := keys.SignEvent(unsigned)
	if err != nil {
		t.Fatalf("SignEvent failed: %v", err)
	}
	return event
}

func TestSerializeForIDEscaping(t *testing.T) {
	publicKey, err := PublicKeyFromHex(testPubKeyHex)
	if err != nil {
		t.Fatalf("PublicKeyFromHex failed: %v", err)
	}
	content := "a\"b\\\n\r\t\b\f\x01<>& é"
	got := string(serializeForID(publicKey, 1, 1, Tags{{"e", "x"}, {}}, content))
	want := `[0,"` + testPubKeyHex + `",1,1,[["e","x"],[]],"a\"b\\\n\r\t\b\f\u0001<>&` + " é" + `"]`
	if got != want {
		t.Fatalf("unexpected serialization:\n got: %s\nwant: %s", got, want)
	}
}

func TestComputeEventIDMatchesSHA256(t *testing.T) {
	publicKey, _ := PublicKeyFromHex(testPubKeyHex)
	serialized := serializeForID(publicKey, 1700000000, 1, nil, "hi")
	if string(serialized) != `[0,"`+testPubKeyHex+`",1700000000,1,[],"hi"]` {
		t.Fatalf("unexpected serialization: %s", serialized)
	}
	want := stdsha256.Sum256(serialized)
	got := ComputeEventID(publicKey, 1700000000, 1, nil, "hi")
	if got != EventID(want) {
		t.Fatalf("unexpected id: %s", got.Hex())
	}
}

func TestSignEventAndVerify(t *testing.T) {
	event := signedNote(t)
	if err := event.Verify(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}
	if event.Kind != KindTextNote {
		t.Fatalf("unexpected kind: %d", event.Kind)
	}
	if event.ID != event.ComputeID() {
		t.Fatal("stored id differs from computed id")
	}
}

func TestVerifyTamperedContent(t *testing.T) {
	event := signedNote(t)
	event.Content = "goodbye"
	if err := event.Verify(); err != ErrInvalidEventID {
		t.Fatalf("expected ErrInvalidEventID, got %v", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	event := signedNote(t)
	other, err := testKeys(t).Sign(EventID{0xaa})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	event.Sig = other
	if err := event.Verify(); err != ErrValidationFail {
		t.Fatalf("expected ErrValidationFail, got %v", err)
	}
}

func TestSignEventRejectsForeignAuthor(t *testing.T) {
	stranger, err := GenerateKeys()
	if err != nil {
		t.Fatalf("GenerateKeys failed: %v", err)
	}
	unsigned := NewTextNote(stranger.PublicKey(), "x", nil, 1)
	if _, err := testKeys(t).SignEvent(unsigned); err != ErrInvalidPublicKey {
		t.Fatalf("expected ErrInvalidPublicKey, got %v", err)
	}
}

func TestSignEventFillsMissingAuthor(t *testing.T) {
	keys := testKeys(t)
	event, err := keys.SignEvent(UnsignedEvent{CreatedAt: 5, Kind: 7, Content: "+"})
	if err != nil {
		t.Fatalf("SignEvent failed: %v", err)
	}
	if !event.PubKey.Equal(keys.PublicKey()) {
		t.Fatal("expected signer as author")
	}
	if err := event.Verify(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}
}

func TestNewTextNoteDefaultsTimestamp(t *testing.T) {
	note := NewTextNote(testKeys(t).PublicKey(), "now", nil, 0)
	if note.CreatedAt <= 0 {
		t.Fatalf("expected current timestamp, got %d", note.CreatedAt)
	}
}

func TestTags(t *testing.T) {
	tags := Tags{{"e", "1"}, {"p", "2"}, {"e", "3"}, {"e"}}
	tag, ok := tags.Find("p")
	if !ok || tag[1] != "2" {
		t.Fatalf("unexpected tag: %v", tag)
	}
	if _, ok := tags.Find("x"); ok {
		t.Fatal("expected no tag")
	}
	values := tags.Values("e")
	if len(values) != 2 || values[0] != "1" || values[1] != "3" {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestEventIDParsing(t *testing.T) {
	event := signedNote(t)
	parsed, err := EventIDFromHex(event.ID.Hex())
	if err != nil || parsed != event.ID {
		t.Fatalf("EventIDFromHex round trip failed: %v", err)
	}
	if _, err := ParseEventID(make([]byte, 31)); err != ErrInvalidEventID {
		t.Fatalf("expected ErrInvalidEventID, got %v", err)
	}
	if _, err := EventIDFromHex("xyz"); err != ErrInvalidEventID {
		t.Fatalf("expected ErrInvalidEventID, got %v", err)
	}
}
