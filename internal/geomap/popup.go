package geomap

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/plugspot/plugspot/internal/models"
)

// popupView is the template input. Status fields are precomputed so the
// templates stay pure formatting.
type popupView struct {
	Station     models.ChargingStation
	StatusLabel string
	StatusColor string
	Slots       string
}

// html/template escapes every station-supplied field (name, address,
// description) on insertion. Raw string concatenation of station text into
// fragments is forbidden anywhere in this package.
var popupTmpl = template.Must(template.New("popup").Parse(`<div class="station-popup">
<h3>{{.Station.Name}}</h3>
<p class="address">{{.Station.Address}}</p>
<p><span class="status-dot" style="background:{{.StatusColor}}"></span>{{.StatusLabel}} &middot; {{.Slots}}</p>
<p class="connector">{{.Station.ConnectorType}}</p>
{{if gt .Station.Rating 0.0}}<p class="rating">&#9733; {{printf "%.1f" .Station.Rating}}</p>{{end}}
{{if .Station.Description}}<p class="description">{{.Station.Description}}</p>{{end}}
</div>`))

var cardTmpl = template.Must(template.New("card").Parse(`<div class="station-card" data-station-id="{{.Station.ID}}">
<div class="card-header"><h4>{{.Station.Name}}</h4><span class="badge" style="background:{{.StatusColor}}">{{.StatusLabel}}</span></div>
<p class="address">{{.Station.Address}}</p>
<p class="meta">{{.Station.ConnectorType}} &middot; {{.Slots}}</p>
</div>`))

func viewFor(st models.ChargingStation) popupView {
	style := st.Status().Style()
	return popupView{
		Station:     st,
		StatusLabel: style.Label,
		StatusColor: style.Color,
		Slots:       fmt.Sprintf("%d/%d slots free", st.AvailableSlots, st.TotalSlots),
	}
}

// PopupHTML renders the marker detail popup for one station.
func PopupHTML(st models.ChargingStation) (string, error) {
	var b strings.Builder
	if err := popupTmpl.Execute(&b, viewFor(st)); err != nil {
		return "", fmt.Errorf("render popup: %w", err)
	}
	return b.String(), nil
}

// CardHTML renders the sidebar list card for one station.
func CardHTML(st models.ChargingStation) (string, error) {
	var b strings.Builder
	if err := cardTmpl.Execute(&b, viewFor(st)); err != nil {
		return "", fmt.Errorf("render card: %w", err)
	}
	return b.String(), nil
}
