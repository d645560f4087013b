/*
Package atomicfile replaces a file's content so that readers either see the old
content or the new content, never a mix or a truncated file.

Data is written to a temporary file in the destination directory. Close() syncs
and closes it, then renames it over the destination. If Write() or Close() fails
the temporary file is removed and the destination is left untouched.

Temporary files are named ".<dst name>.tmp-<random>" so that code enumerating a
directory can tell them apart with IsTempName().

	func save(path string, d []byte) error {
		f, err := atomicfile.New(path)
		if err != nil {
			return err
		}
		// RemoveIfNotClosed() after Close() is a no-op
		defer f.RemoveIfNotClosed()

		_, err = f.Write(d)
		if err != nil {
			return err
		}
		return f.Close()
	}

For a single buffer WriteFile() does the above.
*/
package atomicfile
