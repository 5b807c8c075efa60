// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/gochip8/cpu"
	"github.com/beevik/prefixtree/v2"
)

type settings struct {
	ClockRate          int    `doc:"instructions executed per second"`
	TimerRate          int    `doc:"timer decrements per second"`
	TickMillis         int    `doc:"emulated milliseconds per run slice"`
	KeyMode            string `doc:"key latch mode, edge or level"`
	KeyHoldMillis      int    `doc:"milliseconds a key stays down in play mode"`
	MemDumpBytes       int    `doc:"default number of memory bytes to dump"`
	DisasmLines        int    `doc:"default number of lines to disassemble"`
	StepLinesToDisplay int    `doc:"max lines to disassemble when stepping"`
	NextDisasmAddr     uint16 `doc:"address of next disassembly"`
	NextMemDumpAddr    uint16 `doc:"address of next memory dump"`
}

func newSettings() *settings {
	return &settings{
		ClockRate:          cpu.DefaultClockRate,
		TimerRate:          cpu.TimerRate,
		TickMillis:         16,
		KeyMode:            cpu.EdgeTriggered.String(),
		KeyHoldMillis:      100,
		MemDumpBytes:       64,
		DisasmLines:        10,
		StepLinesToDisplay: 20,
		NextDisasmAddr:     0,
		NextMemDumpAddr:    0,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var s string
		switch f.kind {
		case reflect.String:
			s = fmt.Sprintf("    %-18s \"%s\"", f.name, v.String())
		case reflect.Uint8:
			s = fmt.Sprintf("    %-18s $%02X", f.name, uint8(v.Uint()))
		case reflect.Uint16:
			s = fmt.Sprintf("    %-18s $%03X", f.name, uint16(v.Uint()))
		default:
			s = fmt.Sprintf("    %-18s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-30s (%s)\n", s, f.doc)
	}
}

func (s *settings) Kind(key string) reflect.Kind {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.String && vIn.Type().Kind() != reflect.String) ||
		(f.kind != reflect.String && vIn.Type().Kind() == reflect.String) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type")
	}
	vInConverted := vIn.Convert(f.typ)

	vOut := reflect.ValueOf(s).Elem().Field(f.index).Addr().Elem()
	vOut.Set(vInConverted)

	return nil
}

// Name returns the full name of the setting matching 'key', or the key
// itself if no setting matches.
func (s *settings) Name(key string) string {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return key
	}
	return f.name
}

func (s *settings) validate() error {
	switch {
	case s.ClockRate < 1:
		return errors.New("ClockRate must be at least 1")
	case s.TimerRate < 1:
		return errors.New("TimerRate must be at least 1")
	case s.TickMillis < 1:
		return errors.New("TickMillis must be at least 1")
	case s.KeyHoldMillis < 0:
		return errors.New("KeyHoldMillis must not be negative")
	}
	_, err := cpu.ParseKeyMode(s.KeyMode)
	return err
}
