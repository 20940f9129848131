/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"reflect"
)

// Classification is the layout summary recorded when a Go type is bound to a
// registry entry.
type Classification struct {
	// Size is t.Size().
	Size uintptr
	// PlainOldData is true when values contain no pointers, so a bitwise copy
	// is a complete copy.
	PlainOldData bool
	// Enum is true for named integer types, the Go idiom for enumerations.
	Enum bool
}

// Classify computes the Classification of t. A nil t yields the zero value.
func Classify(t reflect.Type) Classification {
	if t == nil {
		return Classification{}
	}
	return Classification{
		Size:         t.Size(),
		PlainOldData: isPlainOldData(t),
		Enum:         t.Name() != "" && t.PkgPath() != "" && isInteger(t.Kind()),
	}
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isPlainOldData(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isPlainOldData(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isPlainOldData(t.Field(i).Type) {
				return false
			}
		}
		return true
	}
	return false
}
