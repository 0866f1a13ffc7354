package subpair

import "log/slog"

// byteTokens is the number of primitive single-byte token ids (0-255).
// Composite ids learned by training start directly above them.
const byteTokens = 256

// Config holds configuration shared by training and the trained table.
type Config struct {
	Parallelism int          // Worker cap for pair counting across pieces (<=1 = serial)
	CacheSize   int          // Encode cache entries per table (0 = no cache)
	Logger      *slog.Logger // Training progress logging (nil = silent)
}

// Option is a functional option for configuring training and tables.
type Option func(*Config)

// WithParallelism fans pair counting out over up to n goroutines, one per
// corpus piece. Purely a speed knob: the learned rules are identical to a
// serial run.
func WithParallelism(n int) Option {
	return func(c *Config) {
		c.Parallelism = n
	}
}

// WithEncodeCache gives the table an LRU cache of up to n encoded pieces.
// Useful when the same pieces are encoded repeatedly, e.g. common words
// produced by a pre-splitter.
func WithEncodeCache(n int) Option {
	return func(c *Config) {
		c.CacheSize = n
	}
}

// WithLogger sets the logger used to report training progress at debug
// level. Without it the trainer is silent.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Trainer learns merge tables from corpora.
type Trainer struct {
	config Config
}

// NewTrainer creates a trainer with the given options.
func NewTrainer(opts ...Option) *Trainer {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Trainer{config: cfg}
}

// Train learns a merge table from the given corpus pieces.
// See (*Trainer).Train.
func Train(pieces [][]byte, vocabSize int, opts ...Option) *Table {
	return NewTrainer(opts...).Train(pieces, vocabSize)
}
