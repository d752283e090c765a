package backend

import "github.com/leeozaka/achados/internal/models"

// Matches returns the objects of others that could answer one of own: the
// opposite kind, still open, sharing the category or the location, and
// not owned by the same user. Results keep the order of others.
func Matches(own, others []models.ObjectSummary) []models.ObjectSummary {
	var out []models.ObjectSummary
	for _, o := range others {
		if o.Status == models.StatusReturned {
			continue
		}
		for _, mine := range own {
			if mine.Status == models.StatusReturned || mine.OwnerID == o.OwnerID || mine.Kind == o.Kind {
				continue
			}
			if mine.Category == o.Category || mine.Location == o.Location {
				o.IsMatch = true
				out = append(out, o)
				break
			}
		}
	}
	return out
}
