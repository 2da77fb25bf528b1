package catalog

var builtins = map[string]Catalog{
	"object":      objectCatalog,
	"polyp":       polypCatalog,
	"bf-c2dl-hsc": stemCellCatalog,
}

var objectCatalog = Catalog{
	"p0": Text(""),
	"p1": Text("object"),
	"p2": Text("segmentation object"),
	"p3": Text("target object in the image"),
	"p4": Text("small target object"),
	"p5": Text("one small target object"),
	"p6": Text("one small target object in the image"),
	"p7": List("object to segment"),
	"p8": List("one object to segment"),
	"p9": List("one object to segment in the image"),
}

var polypCatalog = Catalog{
	"p0": Text(""),
	"p1": Text("polyp"),
	"p2": Text("circle polyp"),
	"p3": Text("pink circle polyp"),
	"p4": Text("small pink circle polyp"),
	"p5": Text("one small pink circle polyp"),
	"p6": Text("one small pink circle polyp, located in right of the image"),
	"p7": List(
		"polyp which is a projecting growth of tissue",
		"polyp which is often a bumpy flesh in rectum",
		"polyp which is a small lump in the lining of colon",
		"polyp which is a tissue growth that often resemble mushroom like stalks",
		"polyp which is an abnormal growth of tissues projecting from a mucous membrane",
	),
	"p8": List(
		"one small pink circle polyp which is a projecting growth of tissue",
		"one small pink circle polyp which is often a bumpy flesh in rectum",
		"one small pink circle polyp which is a small lump in the lining of colon",
		"one small pink circle polyp which is a tissue growth that often resemble mushroom like stalks",
		"one small pink circle polyp which is an abnormal growth of tissues projecting from a mucous membrane",
	),
	"p9": List(
		"one small pink circle polyp which is a projecting growth of tissue located in right of the image",
		"one small pink circle polyp which is often a bumpy flesh in rectum located in right of the image",
		"one small pink circle polyp which is a small lump in the lining of colon located in right of the image",
		"one small pink circle polyp which is a tissue growth that often resemble mushroom like stalks located in right of the image",
		"one small pink circle polyp which is an abnormal growth of tissues projecting from a mucous membrane located in right of the image",
	),
}

// BF-C2DL-HSC: mouse hematopoietic stem cells in bright-field microscopy.
var stemCellCatalog = Catalog{
	"p0": Text(""),
	"p1": Text("mouse stem cell"),
	"p2": Text("hematopoietic stem cell"),
	"p3": Text("stem cell in bright-field microscopy"),
	"p4": Text("single mouse stem cell"),
	"p5": Text("one stem cell"),
	"p6": Text("one mouse hematopoietic stem cell"),
	"p7": List(
		"mouse stem cell",
		"hematopoietic stem cell in bright-field microscopy",
		"stem cell from BF-C2DL-HSC dataset",
	),
	"p8": List(
		"single mouse stem cell",
		"one hematopoietic stem cell",
		"one stem cell in bright-field microscopy",
	),
	"p9": List(
		"single mouse stem cell in a microscopy image",
		"one hematopoietic stem cell from BF-C2DL-HSC",
	),
}
