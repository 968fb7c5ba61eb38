package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func TestNewHandLandmarks(t *testing.T) {
	t.Run("copies exactly 21 points", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks)
		for i := range points {
			points[i] = Point3D{X: float64(i) / 100, Y: float64(i) / 50}
		}

		hand, err := NewHandLandmarks(points, "Left", 0.8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hand.Handedness != "Left" {
			t.Errorf("expected handedness Left, got %s", hand.Handedness)
		}
		if hand.Points[PinkyTip] != points[PinkyTip] {
			t.Errorf("expected pinky tip %v, got %v", points[PinkyTip], hand.Points[PinkyTip])
		}

		// The slice is copied, not aliased.
		points[Wrist].X = 9
		if hand.Points[Wrist].X == 9 {
			t.Error("hand landmarks alias the input slice")
		}
	})

	t.Run("rejects wrong landmark count", func(t *testing.T) {
		for _, n := range []int{0, 20, 22} {
			if _, err := NewHandLandmarks(make([]Point3D, n), "Right", 1); err == nil {
				t.Errorf("expected error for %d points", n)
			}
		}
	})
}

func TestHandLandmarks_Pixel(t *testing.T) {
	hand := ThumbsUpLandmarks()

	x, y := hand.Pixel(Wrist, 640, 480)
	if x != 320 || y != 384 {
		t.Errorf("Pixel(Wrist) = (%d, %d), want (320, 384)", x, y)
	}
}

func TestHandConnections(t *testing.T) {
	if len(HandConnections) != 21 {
		t.Errorf("expected 21 connections, got %d", len(HandConnections))
	}
	for _, c := range HandConnections {
		if c[0] < 0 || c[0] >= NumLandmarks || c[1] < 0 || c[1] >= NumLandmarks {
			t.Errorf("connection %v out of range", c)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "defaults", config: DefaultConfig()},
		{name: "zero hands", config: Config{MaxHands: 0, MinConfidence: 0.5, MinTrackingConf: 0.5}, wantErr: true},
		{name: "confidence above one", config: Config{MaxHands: 1, MinConfidence: 1.5, MinTrackingConf: 0.5}, wantErr: true},
		{name: "negative tracking", config: Config{MaxHands: 1, MinConfidence: 0.5, MinTrackingConf: -0.1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.MaxHands != 2 {
		t.Errorf("expected MaxHands 2, got %d", c.MaxHands)
	}
	if c.MinConfidence != 0.7 || c.MinTrackingConf != 0.7 {
		t.Errorf("expected 0.7/0.7 confidence, got %v/%v", c.MinConfidence, c.MinTrackingConf)
	}

	args := strings.Join(c.args(), " ")
	want := "--max-hands 2 --min-detection-confidence 0.7 --min-tracking-confidence 0.7"
	if args != want {
		t.Errorf("args() = %q, want %q", args, want)
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.Bytes()
	if len(out) != 4+len(payload) {
		t.Fatalf("expected %d bytes, got %d", 4+len(payload), len(out))
	}
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("length prefix = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(out[4:], payload) {
		t.Error("payload was not written verbatim")
	}
}

func pointsJSON(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = `{"x":0.5,"y":0.5,"z":0}`
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestDecodeResponse(t *testing.T) {
	t.Run("no hands", func(t *testing.T) {
		hands, err := decodeResponse([]byte(`{"hands":[]}`+"\n"), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("keeps detection order", func(t *testing.T) {
		line := `{"hands":[` +
			`{"points":` + pointsJSON(21) + `,"handedness":"Left","score":0.9},` +
			`{"points":` + pointsJSON(21) + `,"handedness":"Right","score":0.8}]}`

		hands, err := decodeResponse([]byte(line), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Fatalf("expected 2 hands, got %d", len(hands))
		}
		if hands[0].Handedness != "Left" || hands[1].Handedness != "Right" {
			t.Errorf("unexpected order: %s, %s", hands[0].Handedness, hands[1].Handedness)
		}
	})

	t.Run("drops malformed hands", func(t *testing.T) {
		line := `{"hands":[` +
			`{"points":` + pointsJSON(5) + `,"handedness":"Left","score":0.9},` +
			`{"points":` + pointsJSON(21) + `,"handedness":"Right","score":0.8}]}`

		hands, err := decodeResponse([]byte(line), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 || hands[0].Handedness != "Right" {
			t.Errorf("expected only the right hand, got %+v", hands)
		}
	})

	t.Run("caps at max hands", func(t *testing.T) {
		hand := `{"points":` + pointsJSON(21) + `,"handedness":"Right","score":0.8}`
		line := `{"hands":[` + hand + `,` + hand + `,` + hand + `]}`

		hands, err := decodeResponse([]byte(line), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("service error", func(t *testing.T) {
		if _, err := decodeResponse([]byte(`{"error":"bad jpeg"}`), 2); err == nil {
			t.Error("expected error for service error response")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := decodeResponse([]byte(`not json`), 2); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{ThumbsUpLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("plays back a sequence", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetSequence([][]HandLandmarks{
			{FistLandmarks()},
			nil,
			{PeaceSignLandmarks(), OpenPalmLandmarks()},
		})

		want := []int{1, 0, 2, 0}
		for i, n := range want {
			hands, err := mock.Detect(nil)
			if err != nil {
				t.Fatalf("call %d: unexpected error: %v", i, err)
			}
			if len(hands) != n {
				t.Errorf("call %d: expected %d hands, got %d", i, n, len(hands))
			}
		}
		if mock.Calls() != len(want) {
			t.Errorf("expected %d calls, got %d", len(want), mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close marks detector closed", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
		if !mock.Closed() {
			t.Error("expected detector to be closed")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestFixtures(t *testing.T) {
	t.Run("thumbs up thumb points upward", func(t *testing.T) {
		l := ThumbsUpLandmarks()
		if l.Points[ThumbTip].Y >= l.Points[ThumbMCP].Y {
			t.Error("thumb tip should be above thumb MCP (lower Y value)")
		}
	})

	t.Run("open palm fingers extend above knuckles", func(t *testing.T) {
		l := OpenPalmLandmarks()
		for _, f := range [][2]int{{IndexMCP, IndexTip}, {MiddleMCP, MiddleTip}, {RingMCP, RingTip}, {PinkyMCP, PinkyTip}} {
			if ext := l.Points[f[0]].Y - l.Points[f[1]].Y; ext < 0.2 {
				t.Errorf("finger %d not extended enough (extension: %f)", f[0], ext)
			}
		}
	})

	t.Run("fist tips stay near knuckles", func(t *testing.T) {
		l := FistLandmarks()
		for _, f := range [][2]int{{IndexMCP, IndexTip}, {MiddleMCP, MiddleTip}, {RingMCP, RingTip}, {PinkyMCP, PinkyTip}} {
			if ext := l.Points[f[0]].Y - l.Points[f[1]].Y; ext > 0.15 {
				t.Errorf("finger %d appears extended (extension: %f)", f[0], ext)
			}
		}
	})

	t.Run("all fixtures are right hands", func(t *testing.T) {
		for _, l := range []HandLandmarks{ThumbsUpLandmarks(), FistLandmarks(), PeaceSignLandmarks(), OpenPalmLandmarks()} {
			if l.Handedness != "Right" || l.Score < 0.9 {
				t.Errorf("unexpected fixture metadata: %s %f", l.Handedness, l.Score)
			}
		}
	})
}
