package cache

import "testing"

func TestProductKey(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "uuid id",
			id:   "3b241101-e2bb-4255-8caf-4136c566a962",
			want: "product-3b241101-e2bb-4255-8caf-4136c566a962",
		},
		{
			name: "plain id",
			id:   "42",
			want: "product-42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProductKey(tt.id); got != tt.want {
				t.Errorf("ProductKey(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

// TestProductKey_Determinism ensures same input always produces same key.
func TestProductKey_Determinism(t *testing.T) {
	first := ProductKey("abc-123")
	for i := 0; i < 10; i++ {
		if got := ProductKey("abc-123"); got != first {
			t.Errorf("ProductKey not deterministic: got %q, want %q", got, first)
		}
	}
}

// The three fixed keys are part of the external cache contract and must
// never change.
func TestFixedKeys(t *testing.T) {
	if KeyLatestProducts != "latest-products" {
		t.Errorf("KeyLatestProducts = %q", KeyLatestProducts)
	}
	if KeyCategories != "categories" {
		t.Errorf("KeyCategories = %q", KeyCategories)
	}
	if KeyAllProducts != "all-products" {
		t.Errorf("KeyAllProducts = %q", KeyAllProducts)
	}
}
