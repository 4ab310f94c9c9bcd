package paramset

// Type classifies the value carried by a parameter.
type Type int

const (
	unclassified Type = iota
	Float
	FloatVector
	Integer
	IntegerVector
	String
	Bool
)

func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case FloatVector:
		return "float-vector"
	case Integer:
		return "integer"
	case IntegerVector:
		return "integer-vector"
	case String:
		return "string"
	case Bool:
		return "bool"
	}
	return "unclassified"
}

type classification struct {
	Type Type

	// The type word emitted in front of the parameter name.
	Token string

	// True if the parameter may reference a named texture instead of a value.
	Texturable bool
}

// Texture channel parameters of float textures.
var floatTextureTable = map[string]classification{
	"tex1": {Float, "float", true},
	"tex2": {Float, "float", true},
}

// The fixed parameter classification table. Every parameter emitted by the
// exporters must appear here.
var table = map[string]classification{
	// trianglemesh
	"indices": {IntegerVector, "integer", false},
	"P":       {FloatVector, "point", false},
	"from":    {FloatVector, "point", false},
	"to":      {FloatVector, "point", false},
	"up":      {FloatVector, "vector", false},
	"N":       {FloatVector, "normal", false},
	"uv":      {FloatVector, "float", false},

	// camera
	"fov":           {Float, "float", false},
	"screenwindow":  {FloatVector, "float", false},
	"hither":        {Float, "float", false},
	"yon":           {Float, "float", false},
	"lensradius":    {Float, "float", false},
	"focaldistance": {Float, "float", false},

	// film
	"xresolution":     {Integer, "integer", false},
	"yresolution":     {Integer, "integer", false},
	"filename":        {String, "string", false},
	"write_png":       {Bool, "bool", false},
	"write_exr":       {Bool, "bool", false},
	"haltspp":         {Integer, "integer", false},
	"displayinterval": {Integer, "integer", false},
	"gamma":           {Float, "float", false},

	// sampler
	"pixelsampler":      {String, "string", false},
	"pixelsamples":      {Integer, "integer", false},
	"largemutationprob": {Float, "float", false},
	"noiseaware":        {Bool, "bool", false},

	// integrators
	"maxdepth":      {Integer, "integer", false},
	"eyedepth":      {Integer, "integer", false},
	"lightdepth":    {Integer, "integer", false},
	"lightstrategy": {String, "string", false},

	// pixel filter
	"xwidth": {Float, "float", false},
	"ywidth": {Float, "float", false},
	"B":      {Float, "float", false},
	"C":      {Float, "float", false},
	"alpha":  {Float, "float", false},

	// accelerator
	"maxprimsperleaf": {Integer, "integer", false},

	// materials
	"type":           {String, "string", false},
	"Kd":             {FloatVector, "color", true},
	"Ks":             {FloatVector, "color", true},
	"Kr":             {FloatVector, "color", true},
	"Kt":             {FloatVector, "color", true},
	"basecolor":      {FloatVector, "color", true},
	"uroughness":     {Float, "float", true},
	"vroughness":     {Float, "float", true},
	"roughness":      {Float, "float", true},
	"metallic":       {Float, "float", true},
	"specular":       {Float, "float", true},
	"index":          {Float, "float", true},
	"sigma":          {Float, "float", true},
	"amount":         {Float, "float", true},
	"namedmaterial1": {String, "string", false},
	"namedmaterial2": {String, "string", false},

	// textures
	"tex1":  {FloatVector, "color", true},
	"tex2":  {FloatVector, "color", true},
	"value": {FloatVector, "color", false},
	"wrap":  {String, "string", false},

	// lights
	"L":          {FloatVector, "color", true},
	"gain":       {Float, "float", false},
	"power":      {Float, "float", false},
	"efficacy":   {Float, "float", false},
	"importance": {Float, "float", false},
	"lightgroup": {String, "string", false},

	"sundir":         {FloatVector, "vector", false},
	"turbidity":      {Float, "float", false},
	"relsize":        {Float, "float", false},
	"theta":          {Float, "float", false},
	"mapname":        {String, "string", false},
	"iesname":        {String, "string", false},
	"coneangle":      {Float, "float", false},
	"conedeltaangle": {Float, "float", false},
}

// Classify returns the type of a parameter name and whether it is known.
func Classify(name string) (Type, bool) {
	c, known := table[name]
	return c.Type, known
}
