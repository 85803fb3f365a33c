package browser

// snapshotJS reads the live page's Vue tree and returns the three feed
// collections as one JSON string. The flash and category lists hang off
// component state at varying depths, so they are located by a bounded
// tree walk; the top list lives in the Vuex store.
const snapshotJS = `
() => {
    function findInTree(vm, key, depth = 0) {
        if (depth > 6) return null;
        if (vm[key] && Array.isArray(vm[key]) && vm[key].length > 0) return vm[key];
        if (vm.$children) {
            for (const c of vm.$children) {
                const r = findInTree(c, key, depth + 1);
                if (r) return r;
            }
        }
        return null;
    }

    const app = document.querySelector('#app').__vue__;
    const store = app.$store.state;

    return JSON.stringify({
        topList: store.topListItems || [],
        flashs: findInTree(app, 'flashs') || [],
        classifyList: findInTree(app, 'classifyList') || []
    });
}`

// searchResultsJS extracts the result list from a search page. The search
// app nests deeper than the live feed, hence the larger depth bound.
const searchResultsJS = `
() => {
    function findFlashList(vm, depth = 0) {
        if (depth > 8) return null;
        if (vm.flashList && Array.isArray(vm.flashList)) return vm.flashList;
        if (vm.$children) {
            for (const c of vm.$children) {
                const r = findFlashList(c, depth + 1);
                if (r) return r;
            }
        }
        return null;
    }

    const app = document.querySelector('#app');
    if (!app || !app.__vue__) return JSON.stringify([]);
    return JSON.stringify(findFlashList(app.__vue__) || []);
}`
