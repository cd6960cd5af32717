package lookengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFabric(t *testing.T) {
	cases := []struct {
		fabric   string
		expected FabricClass
	}{
		{"92% viscose, 8% elastano", FabricStretch},
		{"95% algodão, 5% elastano", FabricStretch},
		{"97% algodão, 3% elastano", FabricRigid},
		{"100% algodão", FabricRigid},
		{"Jersey de viscose", FabricStretch},
		{"Malha canelada", FabricStretch},
		{"Linho", FabricRigid},
		{"55% linho, 45% viscose", FabricRigid},
		{"Couro legítimo", FabricRigid},
		{"Lã fria", FabricStructured},
		{"100% wool", FabricStructured},
		{"Crepe de seda", FabricStructured},
		{"Flanela", FabricNeutral},
		{"Poliéster", FabricNeutral},
		{"", FabricNeutral},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, classifyFabric(c.fabric), "fabric: %q", c.fabric)
	}
}

func TestParseFabricShares(t *testing.T) {
	components := parseFabric("92% Viscose, 8% Elastano")
	assert.Len(t, components, 2)
	assert.Equal(t, "viscose", components[0].Name)
	assert.Equal(t, 92.0, components[0].Share)
	assert.Equal(t, "elastano", components[1].Name)
	assert.Equal(t, 8.0, components[1].Share)
}

func TestParseFabricCommaDecimal(t *testing.T) {
	components := parseFabric("96,5% algodão, 3,5% elastano")
	assert.Len(t, components, 2)
	assert.Equal(t, 3.5, components[1].Share)
}

func TestParseFabricNoShares(t *testing.T) {
	components := parseFabric("Algodão / Elastano")
	assert.Len(t, components, 2)
	assert.Equal(t, "algodao", components[0].Name)
	assert.Equal(t, 0.0, components[0].Share)
}

func TestFabricClassString(t *testing.T) {
	assert.Equal(t, "stretch", FabricStretch.String())
	assert.Equal(t, "rigid", FabricRigid.String())
	assert.Equal(t, "structured", FabricStructured.String())
	assert.Equal(t, "neutral", FabricNeutral.String())
}
