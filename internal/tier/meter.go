package tier

import (
	"fmt"
	"sync"
	"time"
)

// Meter tracks billed minutes per user for the current calendar
// month. Entries expire on their own so a long-lived process does not
// accumulate stale months.
type Meter struct {
	mu    sync.RWMutex
	items map[string]meterItem
	now   func() time.Time
}

type meterItem struct {
	minutes   int
	expiresAt time.Time
}

func NewMeter() *Meter {
	m := &Meter{
		items: make(map[string]meterItem),
		now:   time.Now,
	}
	go m.cleanupExpired()
	return m
}

// Record adds billed minutes for a user in the current month.
func (m *Meter) Record(userID string, minutes int) {
	if minutes <= 0 {
		return
	}
	key := m.monthKey(userID)

	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.items[key]
	item.minutes += minutes
	item.expiresAt = m.endOfMonth()
	m.items[key] = item
}

// Used returns the minutes a user has consumed this month.
func (m *Meter) Used(userID string) int {
	key := m.monthKey(userID)

	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[key]
	if !ok || m.now().After(item.expiresAt) {
		return 0
	}
	return item.minutes
}

// Remaining returns the minutes a user has left on a tier this month.
func (m *Meter) Remaining(t Tier, userID string) int {
	left := GetConfig(t).MonthlyMinutes - m.Used(userID)
	if left < 0 {
		return 0
	}
	return left
}

func (m *Meter) monthKey(userID string) string {
	return fmt.Sprintf("usage:%s:%s", userID, m.now().UTC().Format("2006-01"))
}

func (m *Meter) endOfMonth() time.Time {
	t := m.now().UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

func (m *Meter) cleanupExpired() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		now := m.now()
		for key, item := range m.items {
			if now.After(item.expiresAt) {
				delete(m.items, key)
			}
		}
		m.mu.Unlock()
	}
}
