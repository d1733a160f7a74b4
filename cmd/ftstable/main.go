// main.go -- build, inspect and checksum ftstable hash table files
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Grounded on opencoff-go-chd/example/mphdb.go's shape: a single binary
// with pflag-parsed options, a die()/warn() pair for CLI diagnostics,
// and an explicit "verify" mode that just opens and reports. Split here
// into subcommands because this format has two frozen-file inspectors
// (plain and ordered) plus an integrity-check mode the source format
// has no room for (section 6: "no checksums ... in the table format").
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/dchest/siphash"
	"github.com/opencoff/go-fasthash"
	"github.com/zeebo/xxh3"

	ftstable "github.com/opencoff/go-ftstable"

	flag "github.com/opencoff/pflag"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	rest := os.Args[2:]

	switch cmd {
	case "build":
		cmdBuild(rest)
	case "inspect":
		cmdInspect(rest)
	case "checksum":
		cmdChecksum(rest)
	case "lengths":
		cmdLengths(rest)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s build|inspect|checksum|lengths [options] ...\n", os.Args[0])
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	ordered := fs.BoolP("ordered", "o", false, "Build an ordered (sorted-index) table; input lines must already be key-sorted")
	delim := fs.StringP("delim", "d", " \t", "Delimiter characters separating key and value")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s build [options] OUTPUT [INPUT ...]\n", os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		die("build: no output file given")
	}
	fn := rest[0]
	inputs := rest[1:]

	var w Adder
	var closer func() error
	var publisher func() error

	if *ordered {
		ow, err := ftstable.NewOrderedHashWriter(fn)
		if err != nil {
			die("build: %s: %s", fn, err)
		}
		w, closer, publisher = ow, ow.Close, ow.Publish
	} else {
		hw, err := ftstable.NewHashWriter(fn)
		if err != nil {
			die("build: %s: %s", fn, err)
		}
		w, closer, publisher = hw, hw.Close, hw.Publish
	}

	var total int
	if len(inputs) > 0 {
		for _, f := range inputs {
			n, err := AddTextFile(w, f, *delim)
			if err != nil {
				warn("build: %s: %s", f, err)
				continue
			}
			fmt.Printf("+ %s: %d records\n", f, n)
			total += n
		}
	} else {
		n, err := AddTextStream(w, os.Stdin, *delim)
		if err != nil {
			warn("build: <stdin>: %s", err)
		}
		fmt.Printf("+ <stdin>: %d records\n", n)
		total += n
	}

	if err := closer(); err != nil {
		die("build: %s: close: %s", fn, err)
	}
	if err := publisher(); err != nil {
		die("build: %s: publish: %s", fn, err)
	}

	fmt.Printf("%s: %d records written\n", fn, total)
}

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	ordered := fs.BoolP("ordered", "o", false, "Open as an ordered table")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s inspect [options] FILE\n", os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		die("inspect: no file given")
	}
	fn := rest[0]

	if *ordered {
		r, err := ftstable.OpenOrderedHashReader(fn)
		if err != nil {
			die("inspect: %s: %s", fn, err)
		}
		defer r.Close()
		fmt.Printf("%s: ordered table, %d records\n", fn, r.Len())
		return
	}

	r, err := ftstable.OpenHashReader(fn)
	if err != nil {
		die("inspect: %s: %s", fn, err)
	}
	defer r.Close()

	n, err := r.Len()
	if err != nil {
		die("inspect: %s: %s", fn, err)
	}
	fmt.Printf("%s: %d records, end_of_hashes=%d\n", fn, n, r.EndOfHashes())
}

// cmdChecksum computes an out-of-band integrity digest over the whole
// file. This is deliberately NOT part of the table format itself
// (section 6 rules out checksums and versioning in the file); it exists
// purely as an operator tool for verifying a published file was copied
// intact.
func cmdChecksum(args []string) {
	fs := flag.NewFlagSet("checksum", flag.ExitOnError)
	alg := fs.StringP("alg", "a", "xxh3", "Checksum algorithm: xxh3, siphash or fasthash")
	key := fs.StringP("key", "k", "", "16-byte hex key for siphash (zero key if omitted)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s checksum [options] FILE\n", os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		die("checksum: no file given")
	}
	fn := rest[0]

	fd, err := os.Open(fn)
	if err != nil {
		die("checksum: %s: %s", fn, err)
	}
	defer fd.Close()

	switch *alg {
	case "xxh3":
		h := xxh3.New()
		if _, err := io.Copy(h, fd); err != nil {
			die("checksum: %s: %s", fn, err)
		}
		fmt.Printf("%s  %s  (xxh3)\n", hex.EncodeToString(h.Sum(nil)), fn)

	case "siphash":
		var k [16]byte
		if *key != "" {
			b, err := hex.DecodeString(*key)
			if err != nil || len(b) != 16 {
				die("checksum: -key must be 16 bytes of hex")
			}
			copy(k[:], b)
		}
		// k stays the zero key when -key is omitted; good enough for an
		// operator-side "did the bytes change" check, printed below so
		// it's reproducible.
		h := siphash.New(k[:])
		if _, err := io.Copy(h, fd); err != nil {
			die("checksum: %s: %s", fn, err)
		}
		fmt.Printf("%016x  %s  (siphash, key=%s)\n", h.Sum64(), fn, hex.EncodeToString(k[:]))

	case "fasthash":
		buf, err := io.ReadAll(fd)
		if err != nil {
			die("checksum: %s: %s", fn, err)
		}
		sum := fasthash.Hash64(0, buf)
		fmt.Printf("%016x  %s  (fasthash, not collision-resistant)\n", sum, fn)

	default:
		die("checksum: unknown algorithm %q", *alg)
	}
}

// cmdLengths builds a per-field document-length table from whitespace
// separated "field doc length" triples, or reports the shape of an
// existing one with -inspect.
func cmdLengths(args []string) {
	fs := flag.NewFlagSet("lengths", flag.ExitOnError)
	inspect := fs.BoolP("inspect", "i", false, "Inspect an existing length table instead of building one")
	docs := fs.IntP("docs", "n", 0, "Number of documents in the corpus (build mode)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s lengths [options] FILE [INPUT ...]\n", os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		die("lengths: no file given")
	}
	fn := rest[0]

	if *inspect {
		r, err := ftstable.OpenLengthReader(fn)
		if err != nil {
			die("lengths: %s: %s", fn, err)
		}
		defer r.Close()

		fields := r.Fields()
		fmt.Printf("%s: %d fields\n", fn, len(fields))
		for _, f := range fields {
			fmt.Printf("  %s: %d docs\n", f, r.DocCount(f))
		}
		return
	}

	if *docs <= 0 {
		die("lengths: build mode needs -docs N")
	}

	w, err := ftstable.NewLengthWriter(fn, *docs)
	if err != nil {
		die("lengths: %s: %s", fn, err)
	}

	var total int
	inputs := rest[1:]
	if len(inputs) > 0 {
		for _, f := range inputs {
			n, err := addLengthFile(w, f)
			if err != nil {
				warn("lengths: %s: %s", f, err)
				continue
			}
			fmt.Printf("+ %s: %d entries\n", f, n)
			total += n
		}
	} else {
		n, err := addLengthStream(w, os.Stdin)
		if err != nil {
			warn("lengths: <stdin>: %s", err)
		}
		fmt.Printf("+ <stdin>: %d entries\n", n)
		total += n
	}

	if err := w.Close(); err != nil {
		die("lengths: %s: close: %s", fn, err)
	}
	if err := w.Publish(); err != nil {
		die("lengths: %s: publish: %s", fn, err)
	}

	fmt.Printf("%s: %d entries written\n", fn, total)
}

func die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

func warn(f string, v ...interface{}) {
	s := fmt.Sprintf(f, v...)
	if n := len(s); n == 0 || s[n-1] != '\n' {
		s += "\n"
	}
	fmt.Fprintf(os.Stderr, "%s: %s", os.Args[0], s)
}
