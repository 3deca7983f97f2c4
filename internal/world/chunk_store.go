package world

// ChunkStore holds generated chunks by key. It belongs to the world
// goroutine and is not locked.
type ChunkStore struct {
	chunks map[Key]*Chunk
	quads  int
}

func NewChunkStore() *ChunkStore {
	return &ChunkStore{chunks: make(map[Key]*Chunk)}
}

func (cs *ChunkStore) Get(k Key) (*Chunk, bool) {
	c, ok := cs.chunks[k]
	return c, ok
}

// Add stores a ready chunk, replacing any previous entry for its key.
func (cs *ChunkStore) Add(c *Chunk) {
	if old, ok := cs.chunks[c.Key]; ok {
		cs.quads -= len(old.Quads)
	}
	cs.chunks[c.Key] = c
	cs.quads += len(c.Quads)
}

func (cs *ChunkStore) remove(k Key) {
	if c, ok := cs.chunks[k]; ok {
		cs.quads -= len(c.Quads)
		delete(cs.chunks, k)
	}
}

// Retire deactivates chunks not used by generation and evicts those unused
// for more than grace generations. It returns the number evicted.
func (cs *ChunkStore) Retire(generation, grace uint64) int {
	evicted := 0
	for k, c := range cs.chunks {
		if c.lastUsed == generation {
			continue
		}
		c.active = false
		if generation-c.lastUsed > grace {
			cs.remove(k)
			evicted++
		}
	}
	return evicted
}

func (cs *ChunkStore) Len() int { return len(cs.chunks) }

// Quads is the total quad count over all stored chunks.
func (cs *ChunkStore) Quads() int { return cs.quads }
