package hcl

import "github.com/hashicorp/hcl/v2"

// --- Dataset files ---

// datasetFile is the top-level structure of a dataset file. Anything else,
// such as the constructs of a plan file in the same directory, is left in
// Remain and ignored.
type datasetFile struct {
	Datasets []*datasetBlock `hcl:"dataset,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

// datasetBlock is a `dataset "<name>" {}` block describing one manifest build.
type datasetBlock struct {
	Name       string        `hcl:"name,label"`
	Root       string        `hcl:"root"`
	ImagesDir  string        `hcl:"images_dir,optional"`
	MasksDir   string        `hcl:"masks_dir,optional"`
	AnnsDir    string        `hcl:"anns_dir,optional"`
	Extensions []string      `hcl:"extensions,optional"`
	BBox       string        `hcl:"bbox,optional"`
	Category   *int          `hcl:"category,optional"`
	Seed       *int64        `hcl:"seed,optional"`
	IDSeed     *int64        `hcl:"id_seed,optional"`
	Catalog    string        `hcl:"catalog,optional"`
	Split      *splitBlock   `hcl:"split,block"`
	Prompts    *promptsBlock `hcl:"prompts,block"`
	Remain     hcl.Body      `hcl:",remain"`
}

type splitBlock struct {
	Train float64 `hcl:"train"`
	Val   float64 `hcl:"val"`
	Test  float64 `hcl:"test"`
}

// promptsBlock holds free-form prompt keys; each value is a string or a list
// of strings.
type promptsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// --- Plan files ---

// planFile is the top-level structure of a plan file. The trainer block is
// read from Remain so that a duplicate can be reported with its location;
// dataset blocks found there belong to dataset files and are skipped.
type planFile struct {
	ModelNames []string               `hcl:"models,optional"`
	Tags       []string               `hcl:"tags,optional"`
	Debug      *bool                  `hcl:"debug,optional"`
	Workdir    *string                `hcl:"workdir,optional"`
	Env        map[string]string      `hcl:"env,optional"`
	Command    []string               `hcl:"command,optional"`
	Models     []*modelBlock          `hcl:"model,block"`
	Datasets   []*experimentDataBlock `hcl:"experiment_dataset,block"`
	Remain     hcl.Body               `hcl:",remain"`
}

type modelBlock struct {
	Name         string   `hcl:"name,label"`
	BatchSize    int      `hcl:"batch_size"`
	LearningRate float64  `hcl:"lr"`
	Remain       hcl.Body `hcl:",remain"`
}

// experimentDataBlock is an `experiment_dataset "<name>" {}` block naming a
// dataset to fine-tune on and its prompt keys.
type experimentDataBlock struct {
	Name    string   `hcl:"name,label"`
	Prompts []string `hcl:"prompts,optional"`
}

type trainerBlock struct {
	Accelerator *string `hcl:"accelerator,optional"`
	Precision   *string `hcl:"precision,optional"`
	Devices     *string `hcl:"devices,optional"`
	Logger      *string `hcl:"logger,optional"`
}
