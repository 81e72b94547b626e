package enum

import (
	"encoding/json"
	"testing"
)

func TestInferItemType(t *testing.T) {
	tests := []struct {
		code, name string
		want       ItemType
	}{
		{"FRM1234", "", ItemTypeFrames},
		{"sun0001", "whatever", ItemTypeSunGlasses},
		{"LEN9", "", ItemTypeLens},
		{"CON1", "", ItemTypeContactLens},
		{"", "Titanium Frame", ItemTypeFrames},
		{"", "Polarised sunshade", ItemTypeSunGlasses},
		{"", "Reading glass", ItemTypeSunGlasses},
		{"", "Blue cut lens", ItemTypeLens},
		{"", "Monthly contact lens", ItemTypeContactLens},
		{"X1", "Cleaning kit", ItemTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.name, func(t *testing.T) {
			if got := InferItemType(tt.code, tt.name); got != tt.want {
				t.Fatalf("InferItemType(%q, %q) = %q, want %q", tt.code, tt.name, got, tt.want)
			}
		})
	}
}

func TestOrderStatusJSON(t *testing.T) {
	var s OrderStatus
	if err := json.Unmarshal([]byte(`"delivered"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != OrderStatusDelivered {
		t.Fatalf("got %v", s)
	}
	if err := json.Unmarshal([]byte(`1`), &s); err != nil || s != OrderStatusReady {
		t.Fatalf("int form: %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`"lost"`), &s); err == nil {
		t.Fatalf("expected an error for an unknown status")
	}
	out, _ := json.Marshal(OrderStatusCancelled)
	if string(out) != `"Cancelled"` {
		t.Fatalf("marshal = %s", out)
	}
}

func TestParseEyeAndVision(t *testing.T) {
	if e, ok := ParseEyeSide("RE"); !ok || e != EyeRight {
		t.Fatalf("RE -> %v %v", e, ok)
	}
	if e, ok := ParseEyeSide("left"); !ok || e != EyeLeft {
		t.Fatalf("left -> %v %v", e, ok)
	}
	if _, ok := ParseEyeSide("middle"); ok {
		t.Fatalf("middle should not parse")
	}
	if v, ok := ParseVisionType("NV"); !ok || v != VisionNear {
		t.Fatalf("NV -> %v %v", v, ok)
	}
	if v, ok := ParseVisionType("distance_vision"); !ok || v != VisionDistance {
		t.Fatalf("distance_vision -> %v %v", v, ok)
	}
	if VisionNear.DefaultVisualAcuity() != "N" || VisionDistance.DefaultVisualAcuity() != "6/" {
		t.Fatalf("unexpected default acuity")
	}
}
