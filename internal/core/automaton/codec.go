package automaton

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// MarshalBinary implements encoding.BinaryMarshaler for *DFA so compiled
// automata can be persisted (e.g. by a pattern cache) instead of
// recompiled on every lookup. The format is a flat, self-delimiting
// varint/string stream: state count, then per state (in sorted order for
// reproducible bytes) its id, transition count, and each (column, target)
// pair, followed by the final-state count and each final state id.
func (d *DFA) MarshalBinary() ([]byte, error) {
	var buf []byte

	states := make([]int, 0, len(d.Table))
	for s := range d.Table {
		states = append(states, s)
	}
	sort.Ints(states)

	buf = appendVarint(buf, int64(len(states)))
	for _, s := range states {
		row := d.Table[s]
		cols := make([]string, 0, len(row))
		for c := range row {
			cols = append(cols, c)
		}
		sort.Strings(cols)

		buf = appendVarint(buf, int64(s))
		buf = appendVarint(buf, int64(len(cols)))
		for _, c := range cols {
			buf = appendString(buf, c)
			buf = appendVarint(buf, int64(row[c]))
		}
	}

	finals := make([]int, 0, len(d.Finals))
	for f := range d.Finals {
		finals = append(finals, f)
	}
	sort.Ints(finals)

	buf = appendVarint(buf, int64(len(finals)))
	for _, f := range finals {
		buf = appendVarint(buf, int64(f))
	}

	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for *DFA.
func (d *DFA) UnmarshalBinary(data []byte) error {
	stateCount, n, err := readVarint(data)
	if err != nil {
		return fmt.Errorf("state count: %w", err)
	}
	data = data[n:]

	table := make(map[int]map[string]int, stateCount)
	for i := int64(0); i < stateCount; i++ {
		state, n, err := readVarint(data)
		if err != nil {
			return fmt.Errorf("state id: %w", err)
		}
		data = data[n:]

		transCount, n, err := readVarint(data)
		if err != nil {
			return fmt.Errorf("transition count: %w", err)
		}
		data = data[n:]

		row := make(map[string]int, transCount)
		for j := int64(0); j < transCount; j++ {
			col, n, err := readString(data)
			if err != nil {
				return fmt.Errorf("transition column: %w", err)
			}
			data = data[n:]

			target, n, err := readVarint(data)
			if err != nil {
				return fmt.Errorf("transition target: %w", err)
			}
			data = data[n:]

			row[col] = int(target)
		}
		table[int(state)] = row
	}

	finalCount, n, err := readVarint(data)
	if err != nil {
		return fmt.Errorf("final count: %w", err)
	}
	data = data[n:]

	finals := make(map[int]struct{}, finalCount)
	for i := int64(0); i < finalCount; i++ {
		f, n, err := readVarint(data)
		if err != nil {
			return fmt.Errorf("final state id: %w", err)
		}
		data = data[n:]
		finals[int(f)] = struct{}{}
	}

	d.Table = table
	d.Finals = finals
	return nil
}

func appendVarint(buf []byte, v int64) []byte {
	return binary.AppendVarint(buf, v)
}

func appendString(buf []byte, s string) []byte {
	buf = appendVarint(buf, int64(len(s)))
	return append(buf, s...)
}

func readVarint(data []byte) (int64, int, error) {
	v, n := binary.Varint(data)
	if n <= 0 {
		return 0, 0, fmt.Errorf("malformed varint")
	}
	return v, n, nil
}

func readString(data []byte) (string, int, error) {
	l, n, err := readVarint(data)
	if err != nil {
		return "", 0, err
	}
	data = data[n:]
	if int64(len(data)) < l {
		return "", 0, fmt.Errorf("unexpected end of data in string")
	}
	return string(data[:l]), n + int(l), nil
}
