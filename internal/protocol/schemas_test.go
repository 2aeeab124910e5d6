package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	travelSchema := compile("travel.schema.json")
	frameSchema := compile("frame.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "client_name":"headset-1",
	  "capabilities":{"max_queue":8}
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "client_id":"C1",
	  "scene_params":{
	    "tick_rate_hz":30,
	    "seed":1337,
	    "duration_ms":1500,
	    "fade_out_ratio":0.35,
	    "fade_in_ratio":0.35,
	    "min_spacing_m":2.0,
	    "distribution_radius_m":5.0,
	    "max_creatures":3
	  },
	  "eras":[
	    {"id":"cretaceous","name":"Late Cretaceous","years_ago":66000000,"creature_count":3}
	  ],
	  "eras_digest":"deadbeef",
	  "effect_pattern":{"size":2,"seed":1337,"values":[0.1,0.2,0.3,0.4]}
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var travel any
	_ = json.Unmarshal([]byte(`{
	  "type":"TRAVEL",
	  "protocol_version":"1.0",
	  "travel_id":"T1",
	  "era_id":"cretaceous",
	  "direction":"PAST"
	}`), &travel)
	validate(travelSchema, travel)

	var frame any
	_ = json.Unmarshal([]byte(`{
	  "type":"FRAME",
	  "protocol_version":"1.0",
	  "tick":42,
	  "era_id":"cretaceous",
	  "phase":"FADING_OUT",
	  "progress":0.2,
	  "opacity":0.43,
	  "effect":"DISSOLVE",
	  "direction":"PAST",
	  "slider_locked":true,
	  "creatures":[
	    {"id":"tyrannosaurus","position":{"x":1.5,"y":0.0,"z":-4.0},"scale_m":4.0}
	  ]
	}`), &frame)
	validate(frameSchema, frame)
}

func TestSchemas_RejectBadSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	reject := func(s *jsonschema.Schema, raw string) {
		t.Helper()
		var v any
		_ = json.Unmarshal([]byte(raw), &v)
		if err := s.Validate(v); err == nil {
			t.Fatalf("expected validation failure for %s", raw)
		}
	}

	travelSchema := compile("travel.schema.json")
	reject(travelSchema, `{"type":"TRAVEL","protocol_version":"1.0","travel_id":"T1","era_id":"cretaceous","direction":"SIDEWAYS"}`)
	reject(travelSchema, `{"type":"TRAVEL","protocol_version":"1.0","era_id":"cretaceous","direction":"PAST"}`)

	helloSchema := compile("hello.schema.json")
	reject(helloSchema, `{"type":"HELLO","protocol_version":"1.0","client_name":""}`)
	reject(helloSchema, `{"type":"HELLO","protocol_version":"1.0","client_name":"x","capabilities":{"max_queue":0}}`)
}
