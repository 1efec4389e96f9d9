// Package importer turns parsed historical weeks into participation records
// ready to be stored.
package importer

import (
	"sort"
	"strings"

	appLog "github.com/rcliao/meeting-planner/internal/log"
	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/weekdate"
)

// satelliteOffset places a helper or reader right after its principal.
const satelliteOffset = 0.1

// Report summarizes what an import would do.
type Report struct {
	Weeks      []string `json:"weeks"`
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Unknown    []string `json:"unknown_publishers,omitempty"`
	Unassigned []string `json:"unassigned_parts,omitempty"`
}

// Result holds the records to insert and the report describing them.
type Result struct {
	Records []model.Participation `json:"records"`
	Report  Report                `json:"report"`
}

// Plan resolves parsed weeks against registered publishers and existing
// records. Records already present (by model.DedupKey) are skipped, as are
// duplicates inside the batch itself.
func Plan(weeks []model.HistoricalWeek, existing []model.Participation, publishers []model.Publisher) Result {
	dir := model.NewDirectory(publishers)
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[model.DedupKey(p.Week, p.PartTitle, p.PublisherName)] = true
	}

	var res Result
	unknown := map[string]bool{}
	weekSet := map[string]bool{}

	for _, w := range weeks {
		date := weekdate.CalculatePartDate(w.Week)
		principals := map[int]float64{}
		lastPrincipal := -1.0

		for _, pp := range w.Participations {
			title := strings.TrimSpace(pp.PartTitle)
			if title == "" {
				continue
			}
			raw := strings.TrimSpace(pp.PublisherName)
			if raw == "" && !model.AllowsNamelessPublisher(title) {
				res.Report.Unassigned = append(res.Report.Unassigned, w.Week+": "+title)
				continue
			}

			var name string
			if raw != "" {
				pub, ok := dir.Lookup(raw)
				if !ok {
					if !unknown[model.NormalizeName(raw)] {
						unknown[model.NormalizeName(raw)] = true
						res.Report.Unknown = append(res.Report.Unknown, raw)
					}
					appLog.Debug("publisher not registered", "name", raw, "week", w.Week)
					continue
				}
				name = pub.Name
			}

			key := model.DedupKey(w.Week, title, name)
			if seen[key] {
				res.Report.Duplicates++
				continue
			}
			seen[key] = true

			typ := ResolveType(title, pp.PartNumber)
			order := pp.Order
			if typ.IsSatellite() {
				order = satelliteOrder(pp, principals, lastPrincipal)
			} else {
				lastPrincipal = pp.Order
				if pp.PartNumber != nil {
					principals[*pp.PartNumber] = pp.Order
				}
			}

			rec := model.Participation{
				Week:          w.Week,
				Date:          date,
				PartTitle:     title,
				Type:          typ,
				PublisherName: name,
				Order:         order,
			}
			if pp.PartNumber != nil {
				rec.PartNumber = model.IntPtr(*pp.PartNumber)
			}
			res.Records = append(res.Records, rec)
			weekSet[w.Week] = true
		}
	}

	for wk := range weekSet {
		res.Report.Weeks = append(res.Report.Weeks, wk)
	}
	sort.Slice(res.Report.Weeks, func(i, j int) bool {
		return weekdate.SortKey(res.Report.Weeks[i]) < weekdate.SortKey(res.Report.Weeks[j])
	})
	res.Report.Imported = len(res.Records)
	return res
}

// ResolveType decides a record's type. Role titles (president, prayers,
// songs, helpers, readers, study conductor, final comments) win; otherwise a
// printed part number picks the section band; otherwise the title decides.
func ResolveType(title string, partNumber *int) model.ParticipationType {
	inferred := model.InferType(title)
	switch inferred {
	case model.Treasures, model.Ministry, model.ChristianLife:
		if partNumber != nil {
			return model.TypeForPartNumber(*partNumber)
		}
	}
	return inferred
}

func satelliteOrder(pp model.ParsedParticipation, principals map[int]float64, lastPrincipal float64) float64 {
	if pp.PartNumber != nil {
		if o, ok := principals[*pp.PartNumber]; ok {
			return o + satelliteOffset
		}
	}
	if lastPrincipal >= 0 {
		return lastPrincipal + satelliteOffset
	}
	return pp.Order
}
