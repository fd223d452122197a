package simulate

import (
	"github.com/brianvoe/gofakeit/v7"
)

// Generate returns cfg.Games plays by players drawn from a pool of
// cfg.Players fake first names. The same seed yields the same plays.
func Generate(cfg Config) []Play {
	cfg = cfg.withDefaults()
	faker := gofakeit.New(cfg.Seed)

	pool := make([]string, cfg.Players)
	for i := range pool {
		pool[i] = faker.FirstName()
	}

	plays := make([]Play, cfg.Games)
	for i := range plays {
		plays[i] = Play{
			Name:  pool[faker.Number(0, len(pool)-1)],
			Score: int64(faker.Number(0, cfg.MaxScore)),
		}
	}
	return plays
}
