// Package discretize turns a tunnel into a sequence of disks.
//
// Discretize walks the centre curve of a tunnel and fits a minimal disk at
// small steps, keeping only as many disks as needed so that neighbouring
// disks stay within Delta of each other. Smooth and ChooseRepresentative
// post-process the result, and ReadDSD/WriteDSD handle the plain text
// disk format (one "cx cy cz nx ny nz r" line per disk).
package discretize
