// Package accounting records spools and prints and derives remaining and
// lifetime statistics from them.
//
// A Service is not safe for concurrent use. Every operation that reads the
// active spool and then writes runs in a single transaction, which is enough
// for one process holding one database handle.
package accounting

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"remainder/internal/clock"
	"remainder/internal/database"
	"remainder/internal/logger"
	"remainder/internal/models"
	"remainder/internal/validation"
)

// Service is the accounting engine
type Service struct {
	db    database.DB
	log   *slog.Logger
	clock clock.Clock
}

// NewService creates a Service over db. A nil log discards output and a nil
// clk uses the wall clock.
func NewService(db database.DB, log *slog.Logger, clk clock.Clock) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		db:    db,
		log:   log.With("component", "accounting"),
		clock: clk,
	}
}

// Remaining is what is left on the active spool
type Remaining struct {
	Spool  models.Spool
	Used   models.Usage
	Weight float64 // grams, negative when over-consumed
	Length float64 // meters, negative when over-consumed
}

// Depleted reports whether the recorded prints used up the spool
func (r Remaining) Depleted() bool {
	return r.Weight <= 0 || r.Length <= 0
}

// Totals are lifetime statistics across every spool
type Totals struct {
	models.Usage
	Spools int64
}

// CreateSpool records a new spool, which becomes the active spool.
// At least one of weight and length is required; the other is derived.
// A zero timestamp stamps the spool with the service clock.
func (s *Service) CreateSpool(name string, weight, length *float64, timestamp int64) (models.Spool, error) {
	name = strings.TrimSpace(name)
	if err := validation.Struct(spoolInput{Name: name, Weight: weight, Length: length}); err != nil {
		return models.Spool{}, err
	}

	measurement, err := models.NewMeasurement(weight, length).Resolve()
	if err != nil {
		return models.Spool{}, err
	}

	if timestamp == 0 {
		timestamp = s.clock.Now().Unix()
	}

	spool := models.Spool{
		ID:          uuid.New(),
		Name:        name,
		CreatedAt:   timestamp,
		Measurement: measurement,
	}

	if err := database.WithTx(s.db, func(q database.Querier) error {
		return database.InsertSpool(q, spool)
	}); err != nil {
		return models.Spool{}, err
	}

	s.log.Info("spool created",
		"id", spool.ID,
		"name", spool.Name,
		"weight", spool.WeightValue(),
		"length", spool.LengthValue())
	return spool, nil
}

// AddPrint records a print against the active spool.
// At least one of weight and length is required; the other is derived.
func (s *Service) AddPrint(weight, length *float64, duration int64) (models.Print, error) {
	req := models.PrintRequest{
		Duration:    duration,
		Measurement: models.NewMeasurement(weight, length),
	}

	var recorded models.Print
	err := database.WithTx(s.db, func(q database.Querier) error {
		spool, err := database.CurrentSpool(q)
		if err != nil {
			return err
		}
		recorded, err = recordPrint(q, spool, req)
		return err
	})
	if err != nil {
		return models.Print{}, err
	}

	s.log.Info("print recorded",
		"id", recorded.ID,
		"spool", recorded.SpoolID,
		"weight", recorded.WeightValue(),
		"length", recorded.LengthValue(),
		"duration", recorded.Duration)
	return recorded, nil
}

// ImportPrints records a batch of prints against the active spool. Either
// every print is stored or none is.
func (s *Service) ImportPrints(reqs []models.PrintRequest) ([]models.Print, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	recorded := make([]models.Print, 0, len(reqs))
	err := database.WithTx(s.db, func(q database.Querier) error {
		spool, err := database.CurrentSpool(q)
		if err != nil {
			return err
		}
		for _, req := range reqs {
			p, err := recordPrint(q, spool, req)
			if err != nil {
				if req.Line > 0 {
					return fmt.Errorf("line %d: %w", req.Line, err)
				}
				return err
			}
			recorded = append(recorded, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("prints imported", "count", len(recorded), "spool", recorded[0].SpoolID)
	return recorded, nil
}

// recordPrint resolves req against spool and inserts it
func recordPrint(q database.Querier, spool models.Spool, req models.PrintRequest) (models.Print, error) {
	if err := validation.Struct(printInput{Duration: req.Duration, Weight: req.Weight, Length: req.Length}); err != nil {
		return models.Print{}, err
	}

	measurement, err := req.Resolve()
	if err != nil {
		return models.Print{}, err
	}

	p := models.Print{
		ID:          uuid.New(),
		SpoolID:     spool.ID,
		Duration:    req.Duration,
		Measurement: measurement,
	}
	if err := database.InsertPrint(q, p); err != nil {
		return models.Print{}, err
	}
	return p, nil
}

// CurrentSpool returns the active spool
func (s *Service) CurrentSpool() (models.Spool, error) {
	return database.CurrentSpool(s.db)
}

// Spools lists every spool, the active one first
func (s *Service) Spools() ([]models.Spool, error) {
	return database.ListSpools(s.db)
}

// Remaining computes what is left on the active spool. The result is not
// clamped: negative values mean more was recorded than the spool held.
func (s *Service) Remaining() (Remaining, error) {
	var result Remaining
	err := database.WithTx(s.db, func(q database.Querier) error {
		spool, err := database.CurrentSpool(q)
		if err != nil {
			return err
		}
		used, err := database.SpoolUsage(q, spool.ID)
		if err != nil {
			return err
		}

		result = Remaining{
			Spool:  spool,
			Used:   used,
			Weight: spool.WeightValue() - used.Weight,
			Length: spool.LengthValue() - used.Length,
		}
		return nil
	})
	if err != nil {
		return Remaining{}, err
	}

	if result.Depleted() {
		s.log.Warn("active spool is depleted",
			"spool", result.Spool.ID,
			"weight", result.Weight,
			"length", result.Length)
	}
	s.log.Debug("remaining computed", "weight", result.Weight, "length", result.Length)
	return result, nil
}

// Lifetime sums every print ever recorded, regardless of spool. An empty
// store yields zero totals.
func (s *Service) Lifetime() (Totals, error) {
	usage, err := database.TotalUsage(s.db)
	if err != nil {
		return Totals{}, err
	}
	spools, err := database.CountSpools(s.db)
	if err != nil {
		return Totals{}, err
	}

	s.log.Debug("lifetime computed", "prints", usage.Prints, "spools", spools)
	return Totals{Usage: usage, Spools: spools}, nil
}

// spoolInput is the caller-supplied part of a spool
type spoolInput struct {
	Name   string   `json:"name" validate:"required,max=255"`
	Weight *float64 `json:"weight" validate:"omitempty,gte=0"`
	Length *float64 `json:"length" validate:"omitempty,gte=0"`
}

// printInput is the caller-supplied part of a print
type printInput struct {
	Duration int64    `json:"duration" validate:"gte=0"`
	Weight   *float64 `json:"weight" validate:"omitempty,gte=0"`
	Length   *float64 `json:"length" validate:"omitempty,gte=0"`
}
