package genetic

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Silence-o0/Schedule/pkg/timetable"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

// Individual is a member of the population along with its evaluation
type Individual struct {
	Timetable *timetable.Timetable
	Fitness   Fitness
}

func (individual Individual) Score() float64 {
	return individual.Fitness.Score()
}

type Result struct {
	RunID     string
	Seed      uint64
	Timetable *timetable.Timetable
	Fitness   Fitness
	Valid     bool // Whether the timetable breaks no hard constraint
	Rains     int  // Times the population stagnated and was diversified
	Duration  time.Duration
}

// Run evolves the population for the configured generations and returns its best timetable
func (engine *Engine) Run() Result {
	start := time.Now()
	seed := engine.config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	runID := uuid.NewString()
	logger := engine.logger.With().Str("run_id", runID).Logger()
	logger.Info().
		Uint64("seed", seed).
		Int("population", engine.config.PopulationSize).
		Int("generations", engine.config.Generations).
		Msg("run started")

	//** Initialize
	population := engine.Populate(rng, engine.config.PopulationSize)

	watch := stagnation{patience: engine.config.StagnationPatience, delta: engine.config.StagnationDelta}
	rains := 0
	for generation := range engine.config.Generations {
		//** Select
		survivors := engine.Select(population)

		//** Detect stagnation
		if watch.observe(survivors[len(survivors)*3/4].Score()) {
			drops := engine.Rain(rng, survivors)
			logger.Info().
				Int("generation", generation).
				Int("admitted", len(drops)).
				Msg("population stagnated, raining")
			survivors = append(survivors, drops...)
			rains++
		}

		logger.Info().
			Int("generation", generation).
			Int("survivors", len(survivors)).
			Float64("best", lo.MaxBy(survivors, func(a, b Individual) bool { return a.Score() > b.Score() }).Score()).
			Float64("worst", lo.MinBy(survivors, func(a, b Individual) bool { return a.Score() < b.Score() }).Score()).
			Msg("generation selected")

		//** Reproduce
		children := engine.Reproduce(rng, survivors, engine.config.PopulationSize-len(survivors))
		population = append(survivors, children...)
	}

	//** Terminate
	best := lo.MaxBy(population, func(a, b Individual) bool { return a.Score() > b.Score() })
	result := Result{
		RunID:     runID,
		Seed:      seed,
		Timetable: best.Timetable,
		Fitness:   best.Fitness,
		Valid:     best.Timetable.Valid(),
		Rains:     rains,
		Duration:  time.Since(start),
	}
	logger.Info().
		Object("fitness", result.Fitness).
		Bool("valid", result.Valid).
		Int("rains", result.Rains).
		Dur("duration", result.Duration).
		Msg("run finished")
	return result
}

// stagnation counts the consecutive generations whose boundary score stayed within delta of the previous one,
// the first generation of a streak included
type stagnation struct {
	patience int
	delta    float64
	boundary float64
	streak   int
}

// observe records a generation's boundary score and reports whether the streak reached the patience,
// in which case a new streak starts with the next generation
func (watch *stagnation) observe(boundary float64) bool {
	if watch.streak > 0 && math.Abs(boundary-watch.boundary) <= watch.delta {
		watch.streak++
	} else {
		watch.streak = 1
	}
	watch.boundary = boundary

	if watch.streak >= watch.patience {
		watch.streak = 0
		return true
	}
	return false
}

// Populate builds and evaluates count timetables in parallel
func (engine *Engine) Populate(rng *rand.Rand, count int) []Individual {
	seeds := lo.Times(count, func(_ int) uint64 { return rng.Uint64() })
	individuals := make([]Individual, count)

	workers := pool.New().WithMaxGoroutines(engine.config.Workers)
	for i, seed := range seeds {
		workers.Go(func() {
			local := rand.New(rand.NewPCG(seed, seed))
			built := engine.Construct(local)
			individuals[i] = Individual{Timetable: built, Fitness: engine.problem.Evaluate(built)}
		})
	}
	workers.Wait()

	return individuals
}

// Reproduce produces count children from random pairs of distinct parents in parallel. With less than two parents
// the children are built from scratch instead
func (engine *Engine) Reproduce(rng *rand.Rand, parents []Individual, count int) []Individual {
	if count <= 0 {
		return nil
	} else if len(parents) < 2 {
		return engine.Populate(rng, count)
	}

	type task struct {
		parent1, parent2 *timetable.Timetable
		seed             uint64
	}
	tasks := lo.Times(count, func(_ int) task {
		i := rng.IntN(len(parents))
		j := rng.IntN(len(parents) - 1)
		if j >= i {
			j++
		}
		return task{parent1: parents[i].Timetable, parent2: parents[j].Timetable, seed: rng.Uint64()}
	})
	children := make([]Individual, count)

	workers := pool.New().WithMaxGoroutines(engine.config.Workers)
	for i, job := range tasks {
		workers.Go(func() {
			local := rand.New(rand.NewPCG(job.seed, job.seed))
			child := engine.Crossover(local, job.parent1, job.parent2)
			children[i] = Individual{Timetable: child, Fitness: engine.problem.Evaluate(child)}
		})
	}
	workers.Wait()

	return children
}

// Select prunes every similarity cluster down to its best members, then keeps the best half of the target population
func (engine *Engine) Select(population []Individual) []Individual {
	survivors := make([]Individual, 0, len(population))
	for _, cluster := range engine.Cluster(population) {
		survivors = append(survivors, engine.prune(cluster)...)
	}
	sortByScore(survivors)

	return survivors[:min(len(survivors), max(engine.config.PopulationSize/2, 1))]
}

// Cluster groups the population greedily: each individual not yet clustered seeds a cluster absorbing
// every other unclustered individual similar enough to it
func (engine *Engine) Cluster(population []Individual) [][]Individual {
	clusters := make([][]Individual, 0)
	visited := make([]bool, len(population))

	for i := range population {
		if visited[i] {
			continue
		}
		visited[i] = true
		cluster := []Individual{population[i]}

		for j := i + 1; j < len(population); j++ {
			if !visited[j] && timetable.Similarity(population[i].Timetable, population[j].Timetable) >= engine.config.SimilarityThreshold {
				visited[j] = true
				cluster = append(cluster, population[j])
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// prune keeps the best members of a cluster
func (engine *Engine) prune(cluster []Individual) []Individual {
	if len(cluster) <= engine.config.RetainCount {
		return cluster
	}
	sorted := slices.Clone(cluster)
	sortByScore(sorted)
	return sorted[:engine.config.RetainCount]
}

// Rain mutates clones of about half the members of the smaller half of the clusters and returns the clones that
// reached the minimum amount of successful mutations. The given individuals are left untouched
func (engine *Engine) Rain(rng *rand.Rand, population []Individual) []Individual {
	clusters := engine.Cluster(population)
	slices.SortStableFunc(clusters, func(a, b []Individual) int { return cmp.Compare(len(a), len(b)) })
	targeted := clusters[:(len(clusters)+1)/2]

	drops := make([]Individual, 0)
	for _, cluster := range targeted {
		for _, index := range rng.Perm(len(cluster))[:(len(cluster)+1)/2] {
			clone := cluster[index].Timetable.Clone()
			successes := engine.Mutate(rng, clone, engine.config.MutationAttempts, engine.config.MinMutations)
			if successes < engine.config.MinMutations {
				continue
			}
			drops = append(drops, Individual{Timetable: clone, Fitness: engine.problem.Evaluate(clone)})
		}
	}
	return drops
}

// sortByScore sorts from best to worst
func sortByScore(individuals []Individual) {
	slices.SortStableFunc(individuals, func(a, b Individual) int {
		return cmp.Compare(b.Score(), a.Score())
	})
}
