package cache

import (
	"context"
	"testing"
	"time"
)

// A cache without a configured client must behave as a silent miss so the
// service layer never branches on Redis availability.
func TestNilClientIsNoop(t *testing.T) {
	ctx := context.Background()

	var c *Cache
	if err := c.SetJSON(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("SetJSON on nil cache: %v", err)
	}

	c = &Cache{}
	var dest string
	ok, err := c.GetJSON(ctx, "k", &dest)
	if err != nil {
		t.Errorf("GetJSON on clientless cache: %v", err)
	}
	if ok {
		t.Error("GetJSON on clientless cache reported a hit")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete on clientless cache: %v", err)
	}
}
