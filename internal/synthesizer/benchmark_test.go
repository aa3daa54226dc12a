package synthesizer_test

import (
	"fmt"
	"testing"

	"github.com/mcncl/respexample/internal/formatter"
	"github.com/mcncl/respexample/internal/models"
	"github.com/mcncl/respexample/internal/synthesizer"
)

// nestedSchema creates an object schema nested depth levels deep with width
// properties per level
func nestedSchema(depth, width int) *models.SchemaType {
	if depth <= 0 {
		return models.Object(
			models.Prop("leafId", models.String()),
			models.Prop("count", models.Integer()),
			models.Prop("ratio", models.Number()),
			models.Prop("enabled", models.Boolean()),
		)
	}

	props := make([]models.Property, 0, width)
	for i := 0; i < width; i++ {
		props = append(props, models.Prop(fmt.Sprintf("nested_%d_%d", depth, i), nestedSchema(depth-1, width)))
	}
	return models.Object(props...)
}

// wideSchema creates an object schema with many properties at one level
func wideSchema(fieldCount int) *models.SchemaType {
	props := make([]models.Property, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		var s *models.SchemaType
		switch i % 5 {
		case 0:
			s = models.String()
		case 1:
			s = models.Integer()
		case 2:
			s = models.Boolean()
		case 3:
			s = models.Number()
		case 4:
			s = models.Object(models.Prop("id", models.String()), models.Prop("value", models.Integer()))
		}
		props = append(props, models.Prop(fmt.Sprintf("field_%d", i), s))
	}
	return models.Object(props...)
}

func benchmarkRender(b *testing.B, schema *models.SchemaType) {
	s := synthesizer.NewSynthesizer(synthesizer.WithDiagnostics(synthesizer.DiscardSink))
	f := formatter.NewFormatter()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Render(s.Synthesize(schema, ""))
	}
}

// BenchmarkDeepNesting benchmarks deeply nested object schemas
func BenchmarkDeepNesting(b *testing.B) {
	for _, tc := range []struct{ depth, width int }{{3, 3}, {5, 2}, {8, 1}} {
		b.Run(fmt.Sprintf("depth=%d,width=%d", tc.depth, tc.width), func(b *testing.B) {
			benchmarkRender(b, nestedSchema(tc.depth, tc.width))
		})
	}
}

// BenchmarkWideStructures benchmarks objects with many properties
func BenchmarkWideStructures(b *testing.B) {
	for _, fields := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("fields=%d", fields), func(b *testing.B) {
			benchmarkRender(b, wideSchema(fields))
		})
	}
}

// BenchmarkArrayProcessing benchmarks nested arrays, which grow by a
// factor of four per level
func BenchmarkArrayProcessing(b *testing.B) {
	for _, levels := range []int{1, 3, 5} {
		schema := nestedSchema(0, 0)
		for range levels {
			schema = models.Array(schema)
		}
		b.Run(fmt.Sprintf("levels=%d", levels), func(b *testing.B) {
			benchmarkRender(b, models.Object(models.Prop("items", schema)))
		})
	}
}
