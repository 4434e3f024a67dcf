// Package fixture loads a prototype database, property metadata and curve
// names from a YAML content file. It stands in for the content compiler
// output when running the CLI and in tests.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/protopatch"
	"github.com/reoring/protopatch/content"
	"github.com/reoring/protopatch/property"
)

// File is the YAML layout of a content file.
//
//	classes:
//	  - name: PowerPrototype
//	    fields:
//	      - {name: Damage, type: Float}
//	records:
//	  - {id: 100, name: Powers/Base.prototype, class: PowerPrototype, fields: {Damage: 1.5}}
//	properties:
//	  - {enum: 1, name: Damage, data_type: Real}
//	curves:
//	  - {id: 77, name: Curves/Cost.curve}
type File struct {
	Classes    []ClassSpec    `yaml:"classes"`
	Records    []RecordSpec   `yaml:"records"`
	Properties []PropertySpec `yaml:"properties"`
	Curves     []CurveSpec    `yaml:"curves"`
}

type ClassSpec struct {
	Name   string      `yaml:"name"`
	Fields []FieldSpec `yaml:"fields"`
}

type FieldSpec struct {
	Name string   `yaml:"name"`
	Type string   `yaml:"type"`
	Enum []string `yaml:"enum"`
}

// RecordSpec declares a record. Class may be omitted when Parent is set.
// Records must be listed after their parent.
type RecordSpec struct {
	ID     uint64               `yaml:"id"`
	Name   string               `yaml:"name"`
	Class  string               `yaml:"class"`
	Parent uint64               `yaml:"parent"`
	Fields map[string]yaml.Node `yaml:"fields"`
}

type PropertySpec struct {
	Enum          uint32    `yaml:"enum"`
	Name          string    `yaml:"name"`
	DataType      string    `yaml:"data_type"`
	Params        []string  `yaml:"params"`
	ParamDefaults []int64   `yaml:"param_defaults"`
	Curve         bool      `yaml:"curve"`
	Default       yaml.Node `yaml:"default"`
	// DefaultCurveIndex names the parameterless property that indexes the curve.
	DefaultCurveIndex string `yaml:"default_curve_index"`
}

type CurveSpec struct {
	ID   uint64 `yaml:"id"`
	Name string `yaml:"name"`
}

// Content is a loaded content file. The property table starts out
// uninitialized; InitProperties fills it.
type Content struct {
	DB         *content.Database
	Properties *property.Table
	Curves     *property.CurveTable

	infos []*property.Info
}

// LoadFile reads and parses a content file.
func LoadFile(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse builds the database, the curve table and the pending property
// metadata from YAML text.
func Parse(data []byte) (*Content, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	c := &Content{
		DB:         content.NewDatabase(),
		Properties: property.NewTable(nil),
		Curves:     property.NewCurveTable(),
	}
	for _, cs := range f.Classes {
		fields := make([]content.Field, 0, len(cs.Fields))
		for _, fs := range cs.Fields {
			ft, ok := content.ParseFieldType(fs.Type)
			if !ok {
				return nil, fmt.Errorf("class %s: field %s: unknown type %q", cs.Name, fs.Name, fs.Type)
			}
			fields = append(fields, content.Field{Name: fs.Name, Type: ft, Enum: fs.Enum})
		}
		c.DB.AddClass(content.NewClass(cs.Name, fields...))
	}
	for _, cv := range f.Curves {
		c.Curves.Add(cv.Name, property.CurveID(cv.ID))
	}
	b := &protopatch.Builder{Catalog: c.DB}
	for i := range f.Records {
		if err := c.addRecord(b, &f.Records[i]); err != nil {
			return nil, err
		}
	}
	byName := map[string]property.Enum{}
	for _, ps := range f.Properties {
		byName[ps.Name] = property.Enum(ps.Enum)
	}
	for i := range f.Properties {
		info, err := c.propertyInfo(&f.Properties[i], byName)
		if err != nil {
			return nil, err
		}
		c.infos = append(c.infos, info)
	}
	return c, nil
}

// InitProperties initializes the property table with the file's metadata.
func (c *Content) InitProperties() error {
	return c.Properties.Initialize(c.infos...)
}

// Env returns the registry environment over this content.
func (c *Content) Env() protopatch.Env {
	return protopatch.Env{Graph: c.DB, Properties: c.Properties, Curves: c.Curves}
}

func (c *Content) addRecord(b *protopatch.Builder, rs *RecordSpec) error {
	var class *content.Class
	switch {
	case rs.Class != "":
		cl, ok := c.DB.Class(rs.Class)
		if !ok {
			return fmt.Errorf("record %s: unknown class %q", rs.Name, rs.Class)
		}
		class = cl
	case rs.Parent != 0:
		cl, err := c.DB.ClassOf(content.PrototypeID(rs.Parent))
		if err != nil {
			return fmt.Errorf("record %s: %w", rs.Name, err)
		}
		class = cl
	default:
		return fmt.Errorf("record %s: needs a class or a parent", rs.Name)
	}
	rec := content.NewRecord(class)
	rec.ID = content.PrototypeID(rs.ID)
	rec.Name = rs.Name
	rec.Parent = content.PrototypeID(rs.Parent)
	for name, yn := range rs.Fields {
		f, ok := class.Field(name)
		if !ok {
			return fmt.Errorf("record %s: %w: %s", rs.Name, content.ErrUnknownField, name)
		}
		node, err := toNode(&yn)
		if err != nil {
			return fmt.Errorf("record %s: field %s: %w", rs.Name, name, err)
		}
		v, err := b.ConvertField(f, node)
		if err == nil {
			err = rec.Set(name, v)
		}
		if err != nil {
			return fmt.Errorf("record %s: field %s: %w", rs.Name, name, err)
		}
	}
	return c.DB.Add(rec)
}

func (c *Content) propertyInfo(ps *PropertySpec, byName map[string]property.Enum) (*property.Info, error) {
	dt, ok := property.ParseDataType(ps.DataType)
	if !ok {
		return nil, fmt.Errorf("property %s: unknown data type %q", ps.Name, ps.DataType)
	}
	info := &property.Info{
		Enum:          property.Enum(ps.Enum),
		Name:          ps.Name,
		DataType:      dt,
		ParamCount:    len(ps.Params),
		CurveProperty: ps.Curve || dt == property.DataCurve,
	}
	if len(ps.Params) > property.MaxParamCount {
		return nil, fmt.Errorf("property %s: %d params, at most %d", ps.Name, len(ps.Params), property.MaxParamCount)
	}
	for i, p := range ps.Params {
		pt, ok := property.ParseParamType(p)
		if !ok {
			return nil, fmt.Errorf("property %s: unknown param type %q", ps.Name, p)
		}
		info.ParamTypes[i] = pt
	}
	copy(info.DefaultParams[:], paramsOf(ps.ParamDefaults))
	if ps.DefaultCurveIndex != "" {
		e, ok := byName[ps.DefaultCurveIndex]
		if !ok {
			return nil, fmt.Errorf("property %s: unknown curve index property %q", ps.Name, ps.DefaultCurveIndex)
		}
		info.DefaultCurveIndex = property.NewId(e)
	}
	v, err := c.defaultValue(info, &ps.Default)
	if err != nil {
		return nil, fmt.Errorf("property %s: default: %w", ps.Name, err)
	}
	info.DefaultValue = v
	return info, nil
}

func (c *Content) defaultValue(info *property.Info, yn *yaml.Node) (property.Value, error) {
	s := yn.Value
	if info.CurveProperty {
		if s == "" {
			return property.CurveValue(property.InvalidCurve), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return property.CurveValue(property.CurveID(u)), nil
		}
		return property.CurveValue(c.Curves.CurveByName(s)), nil
	}
	if s == "" {
		switch info.DataType {
		case property.DataReal:
			return property.RealValue(0), nil
		case property.DataBoolean:
			return property.BoolValue(false), nil
		case property.DataPrototype:
			return property.PrototypeValue(content.InvalidPrototype), nil
		case property.DataAsset:
			return property.AssetValue(0), nil
		}
		return property.IntValue(0), nil
	}
	switch info.DataType {
	case property.DataInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		return property.IntValue(n), err
	case property.DataReal:
		f, err := strconv.ParseFloat(s, 32)
		return property.RealValue(float32(f)), err
	case property.DataBoolean:
		b, err := strconv.ParseBool(s)
		return property.BoolValue(b), err
	case property.DataPrototype:
		u, err := strconv.ParseUint(s, 10, 64)
		return property.PrototypeValue(content.PrototypeID(u)), err
	case property.DataAsset:
		u, err := strconv.ParseUint(s, 10, 64)
		return property.AssetValue(content.AssetID(u)), err
	}
	return property.Value{}, fmt.Errorf("unsupported data type %s", info.DataType)
}

func paramsOf(in []int64) []property.Param {
	out := make([]property.Param, len(in))
	for i, v := range in {
		out[i] = property.Param(v)
	}
	return out
}

// toNode converts a YAML node into the node form protopatch decodes.
// Numbers become json.Number so 64-bit references keep every digit.
func toNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return toNode(n.Content[0])
	case yaml.AliasNode:
		return toNode(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := toNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, e := range n.Content {
			v, err := toNode(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		switch t := v.(type) {
		case int:
			return json.Number(strconv.Itoa(t)), nil
		case uint64:
			return json.Number(strconv.FormatUint(t, 10)), nil
		case float64:
			return json.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported yaml node kind %d", n.Kind)
}
