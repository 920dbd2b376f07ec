package main

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/flashimg/flashimg"
	"github.com/flashimg/flashimg/imgfs"
)

const usage = `flashimg - SquashFS/JFFS2 flash image CLI tool

Usage:
  flashimg ls <image_file> [<path>]    List files in the image (optionally in a specific path)
  flashimg cat <image_file> <file>     Display contents of a file in the image
  flashimg info <image_file>           Display information about the image
  flashimg help                        Show this help message

Examples:
  flashimg ls disk.img                 List all files at the root of disk.img
  flashimg ls disk.img lib             List all files in the lib directory
  flashimg cat disk.img dir/file.txt   Display contents of file.txt from disk.img
  flashimg info disk.img               Show metadata about the image
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "ls":
		if len(os.Args) < 3 {
			fmt.Println("Error: Missing image file path")
			fmt.Println(usage)
			os.Exit(1)
		}
		path := "."
		if len(os.Args) > 3 {
			path = os.Args[3]
		}
		if err := listFiles(os.Args[2], path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

	case "cat":
		if len(os.Args) < 4 {
			fmt.Println("Error: Missing image file path or target file")
			fmt.Println(usage)
			os.Exit(1)
		}
		if err := catFile(os.Args[2], os.Args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

	case "info":
		if len(os.Args) < 3 {
			fmt.Println("Error: Missing image file path")
			fmt.Println(usage)
			os.Exit(1)
		}
		if err := showInfo(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

	case "help":
		fmt.Println(usage)

	default:
		fmt.Printf("Error: Unknown command '%s'\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func listFiles(imgPath, dirPath string) error {
	img, err := flashimg.Open(imgPath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	if img == nil {
		return fmt.Errorf("%s: not a recognized flash image", imgPath)
	}
	defer img.Close()

	dirPath = strings.TrimPrefix(dirPath, "./")
	if dirPath == "." {
		dirPath = ""
	}

	names, err := img.List(dirPath)
	if err != nil {
		return fmt.Errorf("failed to list '%s': %w", dirPath, err)
	}

	for _, name := range names {
		childPath := name
		if dirPath != "" {
			childPath = dirPath + "/" + name
		}
		attr, ok, err := img.Stat(childPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to stat '%s': %s\n", childPath, err)
			continue
		}
		if !ok {
			continue
		}

		typeChar := "-"
		if attr.Mode.IsDir() {
			typeChar = "d"
		} else if attr.Mode&fs.ModeSymlink != 0 {
			typeChar = "l"
		}
		mode := attr.Mode.String()
		size := fmt.Sprintf("%8d", attr.Size)
		if attr.Mode.IsDir() {
			size = "       -"
		}
		timeStr := time.Unix(attr.Mtime, 0).Format("Jan 02 15:04")
		fmt.Printf("%s%s %s %s %s\n", typeChar, mode[1:], size, timeStr, childPath)
	}

	return nil
}

func catFile(imgPath, filePath string) error {
	img, err := flashimg.Open(imgPath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	if img == nil {
		return fmt.Errorf("%s: not a recognized flash image", imgPath)
	}
	defer img.Close()

	data, ok, err := img.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", filePath, err)
	}
	if !ok {
		return fmt.Errorf("'%s' is not a regular file", filePath)
	}

	_, err = os.Stdout.Write(data)
	return err
}

func showInfo(imgPath string) error {
	img, err := flashimg.Open(imgPath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	if img == nil {
		return fmt.Errorf("%s: not a recognized flash image", imgPath)
	}
	defer img.Close()

	statfs := img.StatFS()
	fmt.Println("Flash Image Information")
	fmt.Println("=======================")
	fmt.Printf("Name max:         %d\n", statfs.NameMax)
	fmt.Printf("Block size:       %d bytes\n", statfs.Bsize)

	var fileCount, dirCount, symCount int
	if err := countEntries(img, "", &fileCount, &dirCount, &symCount); err != nil {
		return fmt.Errorf("failed to walk image: %w", err)
	}

	fmt.Println("\nContent Summary")
	fmt.Println("---------------")
	fmt.Printf("Directories:      %d\n", dirCount)
	fmt.Printf("Regular files:    %d\n", fileCount)
	fmt.Printf("Symlinks:         %d\n", symCount)

	return nil
}

// countEntries walks dir recursively, tallying entries by kind.
func countEntries(img imgfs.Image, dir string, fileCount, dirCount, symCount *int) error {
	names, err := img.List(dir)
	if err != nil {
		return err
	}

	for _, name := range names {
		childPath := name
		if dir != "" {
			childPath = dir + "/" + name
		}

		attr, ok, err := img.Stat(childPath)
		if err != nil || !ok {
			continue
		}

		switch {
		case attr.Mode.IsDir():
			*dirCount++
			if err := countEntries(img, childPath, fileCount, dirCount, symCount); err != nil {
				return err
			}
		case attr.Mode&fs.ModeSymlink != 0:
			*symCount++
		default:
			*fileCount++
		}
	}

	return nil
}
