package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hupe1980/lexgo"
)

type festival struct {
	Regions []string `json:"regions"`
	Rituals []string `json:"rituals"`
}

var (
	dataFile = flag.String("data", "", "JSON file with festival records (optional)")
	indexDir = flag.String("dir", "./lexgo_data", "Directory for the persisted index")
	topK     = flag.Int("k", 5, "Number of results per query")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	fmt.Println("--- Load or fit ---")

	index, err := lexgo.LoadFromDir[festival](ctx, *indexDir)
	if errors.Is(err, lexgo.ErrDataUnavailable) {
		records, rerr := loadRecords()
		if rerr != nil {
			log.Fatal(rerr)
		}

		start := time.Now()
		index, err = lexgo.TFIDF[festival]().Fit(ctx, records)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Fitted %d records in %v\n", index.Len(), time.Since(start))

		if err := index.SaveToDir(ctx, *indexDir); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Saved index to %s\n", *indexDir)
	} else if err != nil {
		log.Fatal(err)
	} else {
		fmt.Printf("Loaded %d records from %s\n", index.Len(), *indexDir)
	}

	stats := index.Stats()
	fmt.Printf("Vocabulary: %d terms, %d stored weights\n\n", stats.Terms, stats.NNZ)

	fmt.Println("Type the name or description of a festival.")
	fmt.Println("Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nquery> ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "exit") {
			break
		}

		start := time.Now()
		results, err := index.Search(ctx, query, *topK)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Top results (%v):\n", time.Since(start))
		for _, r := range results {
			fmt.Printf(" - %s  (score=%.3f)\n", r.Document.CanonicalName, r.Score)
			if len(r.Document.Meta.Regions) > 0 {
				fmt.Printf("   regions=%s\n", strings.Join(r.Document.Meta.Regions, ", "))
			}
			if len(r.Document.Meta.Rituals) > 0 {
				fmt.Printf("   rituals=%s\n", strings.Join(r.Document.Meta.Rituals, ", "))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

func loadRecords() ([]lexgo.Record[festival], error) {
	if *dataFile == "" {
		return builtinRecords(), nil
	}

	data, err := os.ReadFile(*dataFile)
	if err != nil {
		return nil, err
	}

	var records []lexgo.Record[festival]
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", *dataFile, err)
	}

	return records, nil
}

func builtinRecords() []lexgo.Record[festival] {
	return []lexgo.Record[festival]{
		{
			ID:             "diwali",
			CanonicalName:  "Diwali",
			AlternateNames: []string{"Deepavali", "Festival of Lights"},
			Description:    "The festival of lights celebrated with oil lamps, rangoli and fireworks.",
			Tags:           []string{"lights", "hindu"},
			Meta: festival{
				Regions: []string{"pan-india"},
				Rituals: []string{"lighting oil lamps", "rangoli", "fireworks"},
			},
		},
		{
			ID:            "holi",
			CanonicalName: "Holi",
			Description:   "The festival of colours welcoming spring with coloured powder and water.",
			Tags:          []string{"spring", "hindu"},
			Meta: festival{
				Regions: []string{"north-india"},
				Rituals: []string{"throwing coloured powder", "bonfires"},
			},
		},
		{
			ID:            "pongal",
			CanonicalName: "Pongal",
			Description:   "A harvest festival where newly harvested rice is boiled in milk.",
			Tags:          []string{"harvest", "tamil"},
			Meta: festival{
				Regions: []string{"tamil-nadu"},
				Rituals: []string{"boiling rice in milk", "kolam"},
			},
		},
		{
			ID:            "onam",
			CanonicalName: "Onam",
			Description:   "A harvest festival with snake boat races and flower carpets.",
			Tags:          []string{"harvest"},
			Meta: festival{
				Regions: []string{"kerala"},
				Rituals: []string{"snake boat race", "pookalam flower carpet"},
			},
		},
		{
			ID:            "navratri",
			CanonicalName: "Navratri",
			Description:   "Nine nights of dance and worship of the goddess Durga.",
			Tags:          []string{"dance", "hindu"},
			Meta: festival{
				Regions: []string{"gujarat", "pan-india"},
				Rituals: []string{"garba dance", "fasting"},
			},
		},
	}
}
