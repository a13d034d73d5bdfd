//go:build generate

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	iyaml "github.com/invopop/yaml"
	"github.com/mcuadros/go-defaults"

	"github.com/theopenlane/utils/envparse"

	"github.com/jerilmartin/rankprobe/config"
)

const (
	// tagName is the struct tag used for field naming in the schema
	tagName = "koanf"
	// skipper is the tag value that indicates a field should be skipped
	skipper = "-"
	// defaultTag is the struct tag used for default values
	defaultTag = "default"
	// sensitiveTag is the struct tag used to mark sensitive fields
	sensitiveTag = "sensitive"
	// varPrefix is the environment variable prefix
	varPrefix = "RANKPROBE"

	schemaOut = "./jsonschema/rankprobe.config.json"
	yamlOut   = "./config/config.example.yaml"
	envOut    = "./config/.env.example"

	// filePerm is the permission for generated files
	filePerm = 0600
)

// main generates the JSON schema, example YAML config, and example env file
// from the config struct
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := seededConfig()

	for _, step := range []func(*config.Config) error{
		writeSchema,
		writeYAMLExample,
		writeEnvExample,
	} {
		if err := step(cfg); err != nil {
			return err
		}
	}

	return nil
}

// seededConfig returns a config populated the same way Load seeds one, so the
// generated examples show the real defaults
func seededConfig() *config.Config {
	cfg := &config.Config{}
	defaults.SetDefaults(cfg)

	if len(cfg.Serp.Locations) == 0 {
		cfg.Serp.Locations = []string{"us", "gb", "ca"}
	}

	return cfg
}

// writeSchema reflects the config struct into a JSON schema, pulling field
// descriptions from the Go doc comments in the config package
func writeSchema(cfg *config.Config) error {
	r := jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               tagName,
	}

	if err := r.AddGoComments("github.com/jerilmartin/rankprobe/", "./config"); err != nil {
		return fmt.Errorf("failed to add go comments: %w", err)
	}

	data, err := json.MarshalIndent(r.Reflect(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON schema: %w", err)
	}

	if err := os.WriteFile(schemaOut, data, filePerm); err != nil {
		return fmt.Errorf("failed to write JSON schema file: %w", err)
	}

	fmt.Printf("wrote %s\n", schemaOut)

	return nil
}

// writeYAMLExample renders the defaulted config as YAML with durations in
// human-readable form
func writeYAMLExample(cfg *config.Config) error {
	data, err := iyaml.Marshal(yamlTree(reflect.ValueOf(cfg).Elem()))
	if err != nil {
		return fmt.Errorf("failed to marshal YAML config: %w", err)
	}

	if err := os.WriteFile(yamlOut, data, filePerm); err != nil {
		return fmt.Errorf("failed to write YAML config file: %w", err)
	}

	fmt.Printf("wrote %s\n", yamlOut)

	return nil
}

// yamlTree converts a config struct into a map keyed by koanf tags
func yamlTree(v reflect.Value) map[string]any {
	v = reflect.Indirect(v)
	t := v.Type()

	tree := make(map[string]any, v.NumField())

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		key := field.Tag.Get(tagName)
		if key == "" || key == skipper {
			continue
		}

		tree[key] = yamlValue(v.Field(i))
	}

	return tree
}

// yamlValue renders one field value, recursing into structs, slices, and maps
func yamlValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if isDuration(v.Type()) {
		return time.Duration(v.Int()).String()
	}

	switch v.Kind() {
	case reflect.Struct:
		return yamlTree(v)
	case reflect.Slice, reflect.Array:
		items := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			items = append(items, yamlValue(v.Index(i)))
		}

		return items
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			if iter.Key().Kind() == reflect.String {
				out[iter.Key().String()] = yamlValue(iter.Value())
			}
		}

		return out
	default:
		return v.Interface()
	}
}

// writeEnvExample lists every environment override, grouped by config
// section, with sensitive values left blank
func writeEnvExample(cfg *config.Config) error {
	cp := envparse.Config{
		FieldTagName: tagName,
		Skipper:      skipper,
	}

	vars, err := cp.GatherEnvInfo(varPrefix, cfg)
	if err != nil {
		return fmt.Errorf("failed to gather environment info: %w", err)
	}

	var b strings.Builder

	section := ""

	for _, v := range vars {
		if s := sectionOf(v.Key); s != section {
			if section != "" {
				b.WriteString("\n")
			}

			section = s
		}

		if v.Tags.Get(sensitiveTag) == "true" {
			b.WriteString(fmt.Sprintf("# %s is sensitive, set it outside version control\n", v.Key))
			b.WriteString(fmt.Sprintf("%s=\"\"\n", v.Key))

			continue
		}

		defaultVal := v.Tags.Get(defaultTag)

		if isDuration(v.Type) && defaultVal != "" {
			if d, parseErr := time.ParseDuration(defaultVal); parseErr == nil {
				defaultVal = d.String()
			}
		}

		b.WriteString(fmt.Sprintf("%s=\"%s\"\n", v.Key, defaultVal))
	}

	if err := os.WriteFile(envOut, []byte(b.String()), filePerm); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}

	fmt.Printf("wrote %s\n", envOut)

	return nil
}

// sectionOf extracts the config section from a variable key, so
// RANKPROBE_SERVER_LISTEN groups under SERVER
func sectionOf(key string) string {
	parts := strings.SplitN(key, "_", 3)
	if len(parts) < 2 {
		return key
	}

	return parts[1]
}

// isDuration checks if the provided reflect.Type represents time.Duration
func isDuration(t reflect.Type) bool {
	return t == reflect.TypeOf(time.Duration(0))
}
