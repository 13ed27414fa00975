package usecase

import "sync"

// CategoryLocks serializes mutating operations per tournament category.
// Draw generation, result recording and point awarding for the same
// category must never interleave; different categories proceed freely.
type CategoryLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCategoryLocks() *CategoryLocks {
	return &CategoryLocks{locks: map[string]*sync.Mutex{}}
}

// Acquire locks the given category and returns the unlock function.
func (c *CategoryLocks) Acquire(tournamentID, categoryID string) func() {
	key := tournamentID + "/" + categoryID

	c.mu.Lock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
