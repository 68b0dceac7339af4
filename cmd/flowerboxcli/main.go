package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/flowerbox/core"
	"github.com/devblok/flowerbox/model"
	"github.com/devblok/flowerbox/resources"
)

var configFile = flag.String("config", "", "YAML configuration file")

// report is the static renderer setup, as the device would apply it
type report struct {
	Configuration core.Configuration
	Steps         []string
	Pipeline      core.PipelineDescriptor
	ShaderName    string
	Vertices      int
	Indices       int
}

func main() {
	flag.Parse()

	cfg, err := core.LoadConfiguration(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := inspect(os.Stdout, cfg); err != nil {
		log.Fatal(err)
	}
}

func inspect(w io.Writer, cfg core.Configuration) error {
	source, err := core.ResolveShaderSource(resources.Shaders, cfg.Renderer)
	if err != nil {
		return err
	}

	var steps []string
	for s := core.StepDevice; s <= core.StepRasterizer; s++ {
		steps = append(steps, s.String())
	}

	cube := model.Cube()
	bytes, err := json.Marshal(report{
		Configuration: cfg,
		Steps:         steps,
		Pipeline:      core.DefaultPipeline(source),
		ShaderName:    source.Name,
		Vertices:      len(cube.Vertices),
		Indices:       len(cube.Indices),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", bytes)
	return err
}
