package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/framework"
)

// trueFrontPoints is the resolution of the reference front in plots.
const trueFrontPoints = 100

// PlotResults writes a scatter plot of the found solutions into dir and
// returns the path of the HTML file. When the problem knows its true Pareto
// front, the front is drawn as a reference series.
func PlotResults(results []framework.ObjectiveSpacePoint, problem framework.Problem, algorithmName, dir string) (string, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("results are empty for %s Benchmark", problem.Name())
	}

	if len(results[0]) != 2 {
		return "", fmt.Errorf("can only plot 2D for %s Benchmark", problem.Name())
	}

	// Create scatter chart
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s Results for %s Benchmark", algorithmName, problem.Name()),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "f1(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "f2(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	if provider, ok := problem.(framework.ParetoFrontProvider); ok {
		if front := provider.TrueParetoFront(trueFrontPoints); len(front) > 0 {
			scatter.AddSeries("True Pareto Front", scatterData(front, "circle"))
		}
	}

	// Add data series
	scatter.AddSeries(fmt.Sprintf("%s Solutions", algorithmName), scatterData(results, "triangle")).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	// Create HTML file
	path := filepath.Join(dir, PlotFileName(problem.Name(), algorithmName))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return "", err
	}
	return path, nil
}

// PlotFileName is the name of the HTML file PlotResults writes.
func PlotFileName(problemName, algorithmName string) string {
	name := fmt.Sprintf("%s_%s_results.html", problemName, algorithmName)
	return strings.Map(func(r rune) rune {
		if r == '/' || r == ' ' {
			return '_'
		}
		return r
	}, name)
}

func scatterData(points []framework.ObjectiveSpacePoint, symbol string) []opts.ScatterData {
	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		data[i] = opts.ScatterData{
			Value:      []float64{p[0], p[1]},
			Symbol:     symbol,
			SymbolSize: 10,
		}
	}
	return data
}
