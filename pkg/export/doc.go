/*
Package export turns a registry key and everything beneath it into a nested,
ordered document.

# Quick Start

	key, err := rootpath.Open(store, `HKEY_CURRENT_USER\Software\Test`)
	if err != nil {
	    return err
	}
	defer key.Close()

	node, err := export.Tree(ctx, key)
	if err != nil {
	    return err
	}
	data, err := export.Marshal(node, export.DefaultEncodeOptions())

For a key holding Name="abc" and a child Sub holding Count=5 the document is:

	{
	  "Name": "abc",
	  "Sub": {
	    "Count": 5
	  }
	}

# Values

Every value is passed through Normalize:

  - text stays text
  - integers (REG_DWORD, REG_QWORD) become numbers
  - multi-strings become arrays
  - raw bytes are decoded as UTF-8, invalid sequences become U+FFFD
  - absent values become ""

# Failure handling

A value that cannot be read, or a child key that cannot be opened (access
denied, deleted while the walk was running), is left out of its parent.
Nothing else about the walk changes. Use Exporter.Stats to see how many
entries were skipped.

A store that reports the same name twice under one key fails the export
with types.ErrDuplicateName instead of dropping either entry.
*/
package export
