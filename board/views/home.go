package views

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"juicyboard/client-go/board/api"
	"juicyboard/client-go/board/router"
	"juicyboard/client-go/board/types"
	"juicyboard/client-go/board/ui"
)

// Home is the landing view: upload an image, get a classification.
func Home(a *App) router.View {
	return func(rt router.Route) func() {
		a.setPage(a.header("#home")+
			"\n== classify an image ==\n"+
			"upload a fruit/vegetable/face image and see the result\n\n"+
			ui.Region("predictResult")+"\n",
			"predictResult")
		a.bindHeader("#home")

		a.Bindings.Bind("predict", func(ctx context.Context, fields map[string]string) error {
			path := fields["file"]
			if path == "" {
				a.notify("please choose an image")
				return nil
			}
			data, err := a.readFile(path)
			if err != nil {
				a.notify("could not read image file")
				return nil
			}

			a.setRegion("predictResult", "asking the server...")
			pred, err := a.API.Predict(ctx, api.Upload{Filename: filepath.Base(path), Data: data})
			if err != nil {
				a.setRegion("predictResult", "prediction failed")
				return nil
			}
			a.setRegion("predictResult", renderPrediction(pred))
			return nil
		})
		return nil
	}
}

// renderPrediction shows the top label and the five most probable classes,
// highest first.
func renderPrediction(pred *types.Prediction) string {
	type entry struct {
		label string
		prob  float64
	}
	entries := make([]entry, 0, len(pred.Probabilities))
	for label, prob := range pred.Probabilities {
		entries = append(entries, entry{label, prob})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].prob != entries[j].prob {
			return entries[i].prob > entries[j].prob
		}
		return entries[i].label < entries[j].label
	})
	if len(entries) > 5 {
		entries = entries[:5]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "prediction: %s (%.2f%%)\n", esc(pred.Top1Label), pred.Top1Score*100)
	b.WriteString("top classes:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s : %.2f%%\n", esc(e.label), e.prob*100)
	}
	return b.String()
}
