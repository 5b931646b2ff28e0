package space

import (
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"
)

// Astronaut is a person currently in space
type Astronaut struct {
	Name  string `json:"name"`
	Craft string `json:"craft"`
}

// Roster is the normalized people-in-space record
type Roster struct {
	Number  int         `json:"number"`
	People  []Astronaut `json:"people"`
	Message string      `json:"message"`
}

// Crafts returns the people grouped by craft, in first-seen order
func (r Roster) Crafts() ([]string, map[string][]string) {
	order := []string{}
	byCraft := make(map[string][]string)
	for _, p := range r.People {
		if _, ok := byCraft[p.Craft]; !ok {
			order = append(order, p.Craft)
		}
		byCraft[p.Craft] = append(byCraft[p.Craft], p.Name)
	}
	return order, byCraft
}

// NormalizeRoster validates an astronauts payload. Entries without a string
// name and craft are dropped; the upstream number wins over the list length
// when it is present.
func NormalizeRoster(raw []byte, _ time.Time) (Roster, error) {
	if !gjson.ValidBytes(raw) {
		return Roster{}, ErrMalformedPayload
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Roster{}, fmt.Errorf("%w: expected a JSON object", ErrMalformedPayload)
	}

	people := []Astronaut{}
	if list := root.Get("people"); list.IsArray() {
		list.ForEach(func(_, person gjson.Result) bool {
			name := person.Get("name")
			craft := person.Get("craft")
			if name.Type == gjson.String && craft.Type == gjson.String {
				people = append(people, Astronaut{Name: name.Str, Craft: craft.Str})
			}
			return true
		})
	}

	number := len(people)
	if n := root.Get("number"); n.Type == gjson.Number {
		f := n.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 || f != math.Trunc(f) {
			return Roster{}, fmt.Errorf("%w: number %s is not a valid count", ErrMalformedPayload, n.Raw)
		}
		number = int(f)
	}

	message := "success"
	if m := root.Get("message"); m.Type == gjson.String {
		message = m.Str
	}

	if len(people) == 0 && number == 0 {
		return Roster{}, ErrEmptyRoster
	}

	return Roster{Number: number, People: people, Message: message}, nil
}
