package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"
)

// hmget downloads heightmap assets ahead of generation. Any go-getter URL
// works: plain http(s), git repositories with a subdirectory selector, or
// s3 buckets.
func main() {
	var (
		src = flag.String("src", "", "source URL of the heightmap asset")
		out = flag.String("o", "./assets", "output dir path")
	)
	flag.Parse()

	if *src == "" {
		log.Fatal("source URL required")
	}
	if *out == "" {
		log.Fatal("output dir path required")
	}

	dst := filepath.Join(*out, filepath.Base(*src))
	if err := os.RemoveAll(dst); err != nil {
		log.Fatal(err)
	}

	log.Default().Printf("start downloading heightmap %s", *src)

	if err := get.GetAny(dst, *src); err != nil {
		log.Fatal(err)
	}

	log.Default().Printf("done downloading heightmap to %s", dst)
}
