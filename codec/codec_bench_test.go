package codec

import (
	"fmt"
	"testing"
)

type benchDoc struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type benchModel struct {
	Version  int        `json:"version"`
	MinDF    int        `json:"min_df"`
	MaxDF    float64    `json:"max_df"`
	Terms    []string   `json:"terms"`
	IDF      []float64  `json:"idf"`
	Docs     []benchDoc `json:"docs"`
	DocCount int        `json:"doc_count"`
}

// benchModelPayload approximates a fitted model over a few hundred
// documents: a few thousand vocabulary terms plus the document table.
func benchModelPayload() benchModel {
	m := benchModel{Version: 1, MinDF: 1, MaxDF: 0.8, DocCount: 300}

	for i := range 2000 {
		m.Terms = append(m.Terms, fmt.Sprintf("term%04d festival", i))
		m.IDF = append(m.IDF, 1+float64(i)/997)
	}

	for i := range 300 {
		m.Docs = append(m.Docs, benchDoc{
			ID:          fmt.Sprintf("doc-%03d", i),
			Name:        fmt.Sprintf("Festival %d", i),
			Description: "celebration of lights and harvest with processions",
			Tags:        []string{"harvest", "lights"},
		})
	}

	return m
}

func BenchmarkCodec_Marshal_Model(b *testing.B) {
	payload := benchModelPayload()

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			data, err := c.Marshal(payload)
			if err != nil {
				b.Fatal(err)
			}

			b.SetBytes(int64(len(data)))
			b.ReportAllocs()

			for b.Loop() {
				if _, err := c.Marshal(payload); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCodec_Unmarshal_Model(b *testing.B) {
	data, err := JSON{}.Marshal(benchModelPayload())
	if err != nil {
		b.Fatal(err)
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()

			var m benchModel
			for b.Loop() {
				if err := c.Unmarshal(data, &m); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
