// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package feed

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sphereio/customer-import/importer/validator"
)

func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []validator.Raw
		wantErrs []string
	}{
		{
			name:  "flat columns",
			input: "email,firstName,isEmailVerified\na@test.de,Max,true\nb@test.de,Erika,false\n",
			want: []validator.Raw{
				{"email": "a@test.de", "firstName": "Max", "isEmailVerified": "true"},
				{"email": "b@test.de", "firstName": "Erika", "isEmailVerified": "false"},
			},
		},
		{
			name:  "empty cells are left out",
			input: "email,firstName,customerGroup\na@test.de,,\n",
			want: []validator.Raw{
				{"email": "a@test.de"},
			},
		},
		{
			name: "nested addresses become a list",
			input: "email,addresses.1.city,addresses.0.city,addresses.0.country\n" +
				"a@test.de,Berlin,Stadt,DE\n",
			want: []validator.Raw{
				{
					"email": "a@test.de",
					"addresses": []any{
						map[string]any{"city": "Stadt", "country": "DE"},
						map[string]any{"city": "Berlin"},
					},
				},
			},
		},
		{
			name:  "custom fields",
			input: "email,custom.type.key,custom.fields.nickname\na@test.de,my-type,maxi\n",
			want: []validator.Raw{
				{
					"email": "a@test.de",
					"custom": map[string]any{
						"type":   map[string]any{"key": "my-type"},
						"fields": map[string]any{"nickname": "maxi"},
					},
				},
			},
		},
		{
			name:  "byte order mark and padded header",
			input: "\ufeffemail, firstName \na@test.de,Max\n",
			want: []validator.Raw{
				{"email": "a@test.de", "firstName": "Max"},
			},
		},
		{
			name:  "header only",
			input: "email,firstName\n",
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:  "row longer than header",
			input: "email\na@test.de,extra\nb@test.de\n",
			want: []validator.Raw{
				{"email": "b@test.de"},
			},
			wantErrs: []string{"line 2: row has 2 fields, header has 1"},
		},
		{
			name:  "malformed row only fails that row",
			input: "email,firstName\na@test.de,Ma\"x\nb@test.de,Erika\n",
			want: []validator.Raw{
				{"email": "b@test.de", "firstName": "Erika"},
			},
			wantErrs: []string{"bare \" in non-quoted-field"},
		},
		{
			name:     "conflicting columns",
			input:    "email,custom,custom.type.key\na@test.de,x,my-type\n",
			wantErrs: []string{`column "custom.type.key" conflicts with column "custom"`},
		},
		{
			name:  "address index gap fails the row",
			input: "email,addresses.0.city,addresses.2.city\na@test.de,Berlin,Hamburg\nb@test.de,Berlin,\n",
			want: []validator.Raw{
				{"email": "b@test.de", "addresses": []any{map[string]any{"city": "Berlin"}}},
			},
			wantErrs: []string{`line 2: column "addresses.2" skips an index`},
		},
		{
			name:     "duplicate column",
			input:    "email,email\na@test.de,b@test.de\n",
			wantErrs: []string{`column "email" is set twice`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, errs := collect(decodeCSV(strings.NewReader(tt.input)))

			if len(records) != len(tt.want) {
				t.Fatalf("got %d records (%v), want %d", len(records), records, len(tt.want))
			}

			for i := range tt.want {
				if !reflect.DeepEqual(records[i], tt.want[i]) {
					t.Errorf("record %d = %#v, want %#v", i, records[i], tt.want[i])
				}
			}

			if len(errs) != len(tt.wantErrs) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.wantErrs))
			}

			for i, want := range tt.wantErrs {
				if !strings.Contains(errs[i].Error(), want) {
					t.Errorf("error %d = %q, want it to contain %q", i, errs[i], want)
				}
			}
		})
	}
}

func TestDecodeCSV_RecordsValidate(t *testing.T) {
	input := "email,isEmailVerified,addresses.0.country,defaultShippingAddress\na@test.de,true,DE,0\n"

	records, errs := collect(decodeCSV(strings.NewReader(input)))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record, err := validator.Validate(records[0])
	if err != nil {
		t.Fatalf("expected CSV record to validate, got %v", err)
	}

	if !record.IsEmailVerified {
		t.Error("expected isEmailVerified to be coerced to true")
	}

	if record.DefaultShippingAddress == nil || *record.DefaultShippingAddress != 0 {
		t.Errorf("defaultShippingAddress = %v, want 0", record.DefaultShippingAddress)
	}
}

func TestListify(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    any
		wantErr string
	}{
		{
			name:  "scalar",
			input: "x",
			want:  "x",
		},
		{
			name:  "numeric keys",
			input: map[string]any{"2": "c", "1": "b", "0": "a"},
			want:  []any{"a", "b", "c"},
		},
		{
			name:  "mixed keys stay a map",
			input: map[string]any{"0": "a", "name": "b"},
			want:  map[string]any{"0": "a", "name": "b"},
		},
		{
			name:  "negative index stays a map",
			input: map[string]any{"-1": "a"},
			want:  map[string]any{"-1": "a"},
		},
		{
			name:  "padded index stays a map",
			input: map[string]any{"00": "a"},
			want:  map[string]any{"00": "a"},
		},
		{
			name:  "empty map",
			input: map[string]any{},
			want:  map[string]any{},
		},
		{
			name:    "index gap",
			input:   map[string]any{"addresses": map[string]any{"0": "a", "2": "c"}},
			wantErr: `column "addresses.2" skips an index`,
		},
		{
			name:    "list not starting at zero",
			input:   map[string]any{"addresses": map[string]any{"1": map[string]any{"city": "Berlin"}}},
			wantErr: `column "addresses.1" skips an index`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := listify(tt.input, nil)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("listify() error = %v, want it to contain %q", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("listify() unexpected error = %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("listify() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
