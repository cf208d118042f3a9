// Package adb drives an Android device through the adb command-line tool.
//
// Runner wraps process invocation; Device layers the operations the tapper
// needs on top of it: connectivity checks, stay-awake control with timeout
// restoration, UI hierarchy dumps and tap input events. FindTapPoint
// resolves the target element's screen coordinates from a dump.
package adb
