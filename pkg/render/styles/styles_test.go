package styles

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
)

func TestDefault(t *testing.T) {
	tab := Default()
	tests := []struct {
		role   figure.Role
		color  string
		dashed bool
	}{
		{figure.RoleGiven, ColorLine, false},
		{figure.RoleFind, ColorAngle, false},
		{figure.RoleConstruction, ColorConstruction, true},
		{figure.RoleHidden, ColorLine, true},
	}
	for _, tt := range tests {
		s := tab.For(tt.role)
		if s.Color != tt.color || s.Dashed() != tt.dashed {
			t.Errorf("For(%s) = %+v", tt.role, s)
		}
	}
	if got := tab.Circle(figure.RoleGiven).Color; got != ColorCircle {
		t.Errorf("given circle color = %s", got)
	}
	if got := tab.Angle(figure.RoleFind); got.Color != ColorAngle || got.Dashed() {
		t.Errorf("find angle = %+v", got)
	}
}

func TestTableIsImmutable(t *testing.T) {
	tab := Default()
	s := tab.For(figure.RoleHidden)
	s.Dash[0] = 100
	if tab.For(figure.RoleHidden).Dash[0] == 100 {
		t.Error("For leaked the table's dash slice")
	}
}

func TestNewTable(t *testing.T) {
	tab, err := NewTable(Override{Role: "hidden", Color: "#ff0000", Dash: []float64{2, 2}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	got := tab.For(figure.RoleHidden)
	want := Style{Color: "#ff0000", Width: 1.5, Dash: []float64{2, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("hidden = %+v, want %+v", got, want)
	}
	if tab.For(figure.RoleGiven).Color != ColorLine {
		t.Error("override touched another role")
	}
}

func TestNewTable_Invalid(t *testing.T) {
	tests := []Override{
		{Role: "shadow"},
		{Role: "given", Color: "blue"},
		{Role: "given", Width: -1},
		{Role: "given", Dash: []float64{0}},
	}
	for _, o := range tests {
		if _, err := NewTable(o); !geoerrors.Is(err, geoerrors.ErrCodeInvalidStyle) {
			t.Errorf("NewTable(%+v) err = %v, want INVALID_STYLE", o, err)
		}
	}
}

func TestTable_MarshalJSON(t *testing.T) {
	a, err := json.Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(Default())
	if string(a) != string(b) {
		t.Error("default table encodes differently twice")
	}
	tab, err := NewTable(Override{Role: "find", Color: "#00ff00"})
	if err != nil {
		t.Fatal(err)
	}
	c, _ := json.Marshal(tab)
	if string(a) == string(c) {
		t.Error("override does not change the encoding")
	}
	if !strings.Contains(string(c), "#00ff00") {
		t.Errorf("encoding %s lacks override color", c)
	}
}
