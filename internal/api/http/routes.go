package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/date-facts/internal/facts"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// defaultLoc is used when a request carries no tz parameter.
func RegisterRoutes(app *fiber.App, service *facts.Service, defaultLoc *time.Location) {
	v1 := app.Group("/api/v1/facts")

	v1.Get("/today", func(c *fiber.Ctx) error {
		var q refQuery
		if err := q.bind(c, defaultLoc); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result := service.GetToday(c.UserContext(), q.At, q.Location)
		return c.JSON(fiber.Map{
			"date": facts.Today(q.At, q.Location),
			"fact": result,
		})
	})

	v1.Get("/week", func(c *fiber.Ctx) error {
		var q refQuery
		if err := q.bind(c, defaultLoc); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		keys := facts.WeekOf(q.At, q.Location)
		results := service.GetWeek(c.UserContext(), q.At, q.Location)
		return c.JSON(fiber.Map{
			"days":    facts.Zip(keys, results),
			"summary": facts.Summarize(results),
		})
	})

	v1.Get("/date/:month/:day", func(c *fiber.Ctx) error {
		var p dateParams
		if err := p.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		key, err := facts.NewDateKey(p.Month, p.Day)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return dateFact(c, service, key)
	})

	// Single-segment form: /date/07-04.
	v1.Get("/date/:key", func(c *fiber.Ctx) error {
		key, err := facts.ParseDateKey(c.Params("key"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return dateFact(c, service, key)
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		var q refQuery
		if err := q.bind(c, defaultLoc); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		today, week := service.Refresh(c.UserContext(), q.At, q.Location)
		return c.JSON(fiber.Map{
			"today": facts.DayFact{Key: facts.Today(q.At, q.Location), Result: today},
			"week":  facts.Zip(facts.WeekOf(q.At, q.Location), week),
		})
	})

	v1.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"queries": service.State(),
			"cache":   service.Stats(),
		})
	})
}

func dateFact(c *fiber.Ctx, service *facts.Service, key facts.DateKey) error {
	result, err := service.GetForDate(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, facts.ErrInvalidKey) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch fact")
	}

	return c.JSON(fiber.Map{
		"date": key,
		"fact": result,
	})
}

// refQuery holds the reference instant and time zone supplied by the caller.
type refQuery struct {
	TZ       string         `validate:"omitempty,timezone"`
	At       time.Time      `validate:"-"`
	Location *time.Location `validate:"-"`
}

func (q *refQuery) bind(c *fiber.Ctx, defaultLoc *time.Location) error {
	q.TZ = c.Query("tz")
	if err := validate.Struct(q); err != nil {
		return err
	}

	q.Location = defaultLoc
	if q.TZ != "" {
		loc, err := time.LoadLocation(q.TZ)
		if err != nil {
			return err
		}
		q.Location = loc
	}

	q.At = time.Now()
	if at := c.Query("at"); at != "" {
		ts, err := parseTime(at)
		if err != nil {
			return err
		}
		q.At = ts
	}
	return nil
}

// dateParams holds the path parameters of a calendar selection.
type dateParams struct {
	Month int `validate:"min=1,max=12"`
	Day   int `validate:"min=1,max=31"`
}

func (p *dateParams) bind(c *fiber.Ctx) error {
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil {
		return errors.New("month must be a number")
	}
	day, err := strconv.Atoi(c.Params("day"))
	if err != nil {
		return errors.New("day must be a number")
	}
	p.Month, p.Day = month, day

	return validate.Struct(p)
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
