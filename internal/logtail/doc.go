// Package logtail reads the end of the roster log file.
//
// Tail keeps a ring of the last n matching lines, so memory stays
// proportional to n whatever the file size. Lines are in logrus text format
// (time="..." level=info msg="..."); a minimum level drops the quieter ones.
// Continuation lines without a level= field are always kept.
//
// A missing log file is not an error: Tail returns no lines.
package logtail
